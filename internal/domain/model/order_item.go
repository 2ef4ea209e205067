package model

import "time"

// 追加時点の単価を保持する（部品マスタの現在価格は参照しない）
type OrderItem struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        string    `gorm:"type:uuid;not null;index" json:"order_id"`
	PartID         string    `gorm:"type:uuid;not null;index" json:"part_id"`
	Quantity       int64     `gorm:"not null" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (it OrderItem) LineTotalCents() int64 {
	return it.Quantity * it.UnitPriceCents
}
