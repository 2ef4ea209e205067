package model

import "time"

//在庫調整の履歴。入荷（received）起因の場合はOrderIDが入る。

type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PartID      string    `gorm:"type:uuid;not null;index" json:"part_id"`
	ActorUserID string    `gorm:"type:varchar(64);not null;index" json:"actor_user_id"`
	OrderID     *string   `gorm:"type:uuid;index" json:"order_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
