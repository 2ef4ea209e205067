package repository

import (
	"context"

	"buildseason/internal/domain/model"
)

type MemberRepository interface {
	// メンバーでなければ ErrNotFound
	FindRole(ctx context.Context, teamID string, userID string) (model.Role, error)
}
