package repository

import (
	"context"

	"buildseason/internal/domain/model"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
	CountByOrderID(ctx context.Context, orderID string) (int64, error)
	// Σ quantity * unit_price_cents
	SumTotalByOrderID(ctx context.Context, orderID string) (int64, error)
}
