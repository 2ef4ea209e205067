package repository

import (
	"context"

	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫の現在値を設定
func (r *InventoryGormRepository) SetQuantity(ctx context.Context, partID string, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Part{}).
		Where("id = ?", partID).
		Update("quantity", quantity)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 入荷分を加算
func (r *InventoryGormRepository) IncreaseQuantity(ctx context.Context, partID string, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Part{}).
		Where("id = ?", partID).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return mapError(err)
	}
	return nil
}
