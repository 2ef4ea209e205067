package model

import "time"

// TeamIDがnilの仕入先は全チーム共通（IsGlobal）
type Vendor struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	TeamID    *string   `gorm:"type:uuid;index" json:"team_id"`
	IsGlobal  bool      `gorm:"not null;default:false" json:"is_global"`
	Website   *string   `gorm:"type:varchar(255)" json:"website"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
