package repository

import (
	"context"
	"time"

	"buildseason/internal/domain/model"
)

// 発注一覧の絞り込み条件。ここで一度だけクエリに変換する。
type OrderListFilter struct {
	TeamID string
	Status *model.OrderStatus
	Page   int
	Limit  int
}

// ステータス遷移で一緒に書き換える列
type StatusUpdate struct {
	Status          model.OrderStatus
	RejectionReason *string
	ApprovedByID    *string
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	OrderedAt       *time.Time
	ReceivedAt      *time.Time
	UpdatedAt       time.Time
}

type OrderRepository interface {
	// 他チームの注文は ErrNotFound
	FindByID(ctx context.Context, teamID string, orderID string) (model.Order, error)
	// 行ロック付き（SELECT ... FOR UPDATE）
	FindByIDForUpdate(ctx context.Context, teamID string, orderID string) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context, teamID string) (map[model.OrderStatus]int64, error)
	Create(ctx context.Context, order model.Order) error
	UpdateDetails(ctx context.Context, orderID string, vendorID *string, notes *string, updatedAt time.Time) error
	UpdateTotal(ctx context.Context, orderID string, totalCents int64, updatedAt time.Time) error

	// from のときだけ更新する。0件なら ErrConflict
	UpdateStatus(ctx context.Context, orderID string, from model.OrderStatus, upd StatusUpdate) error
}
