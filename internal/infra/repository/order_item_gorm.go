package repository

import (
	"context"

	"buildseason/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) Create(ctx context.Context, item model.OrderItem) error {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) CountByOrderID(ctx context.Context, orderID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	return n, err
}

func (r *OrderItemGormRepository) SumTotalByOrderID(ctx context.Context, orderID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("COALESCE(SUM(quantity * unit_price_cents), 0)").
		Where("order_id = ?", orderID).
		Row().Scan(&total)
	return total, err
}
