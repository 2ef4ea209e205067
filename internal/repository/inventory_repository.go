package repository

import (
	"buildseason/internal/domain/model"
	"context"
)

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetQuantity(ctx context.Context, partID string, quantity int64) error

	// 入荷で在庫を増やす
	IncreaseQuantity(ctx context.Context, partID string, delta int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
