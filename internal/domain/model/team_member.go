package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMentor  Role = "mentor"
	RoleStudent Role = "student"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleMentor, RoleStudent:
		return Role(s), true
	default:
		return "", false
	}
}

// admin / mentor は発注の作成・提出ができる
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleMentor
}

// ユーザー本体は外部の認証基盤が持つ。ここではチームとの関係だけ。
type TeamMember struct {
	TeamID    string    `gorm:"type:uuid;primaryKey" json:"team_id"`
	UserID    string    `gorm:"type:varchar(64);primaryKey" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
