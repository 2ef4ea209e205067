package repository

import (
	"context"
	"errors"

	"buildseason/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 条件付き更新が0件、一意制約違反など
	ErrConflict = errors.New("conflict")
)

// 部品一覧の絞り込み条件。
type PartListFilter struct {
	TeamID   string
	Search   string
	LowStock bool
}

type PartRepository interface {
	List(ctx context.Context, f PartListFilter) ([]model.Part, error)
	// 他チームの部品は ErrNotFound
	FindByID(ctx context.Context, teamID string, partID string) (model.Part, error)
	Create(ctx context.Context, p model.Part) error
}
