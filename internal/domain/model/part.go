package model

import "time"

type Part struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID         string    `gorm:"type:uuid;not null;index" json:"team_id"`
	Name           string    `gorm:"type:varchar(200);not null" json:"name"`
	SKU            *string   `gorm:"column:sku;type:varchar(100)" json:"sku"`
	VendorID       *string   `gorm:"type:uuid;index" json:"vendor_id"`
	Quantity       int64     `gorm:"not null;default:0" json:"quantity"`
	ReorderPoint   int64     `gorm:"not null;default:0" json:"reorder_point"`
	Location       *string   `gorm:"type:varchar(100)" json:"location"`
	UnitPriceCents int64     `gorm:"not null;default:0" json:"unit_price_cents"`
	Description    *string   `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// 発注点が設定されていて、在庫がそれ以下なら low stock
func (p Part) IsLowStock() bool {
	return p.ReorderPoint > 0 && p.Quantity <= p.ReorderPoint
}
