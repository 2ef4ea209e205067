package model

import "time"

type OrderStatus string

const (
	OrderStatusDraft    OrderStatus = "draft"
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
	OrderStatusOrdered  OrderStatus = "ordered"
	OrderStatusReceived OrderStatus = "received"
)

// 一覧のタブ表示順
var OrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusRejected,
	OrderStatusOrdered,
	OrderStatusReceived,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusDraft:    "Draft",
	OrderStatusPending:  "Pending Approval",
	OrderStatusApproved: "Approved",
	OrderStatusRejected: "Rejected",
	OrderStatusOrdered:  "Ordered",
	OrderStatusReceived: "Received",
}

// ParseOrderStatus はクエリ文字列などからステータスを取り出す。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := orderStatusLabels[st]
	return st, ok
}

func (s OrderStatus) Label() string {
	if l, ok := orderStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Order struct {
	ID              string      `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID          string      `gorm:"type:uuid;not null;index" json:"team_id"`
	VendorID        *string     `gorm:"type:uuid;index" json:"vendor_id"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalCents      int64       `gorm:"not null;default:0" json:"total_cents"`
	Notes           *string     `gorm:"type:text" json:"notes"`
	RejectionReason *string     `gorm:"type:text" json:"rejection_reason"`
	CreatedByID     string      `gorm:"type:varchar(64);not null" json:"created_by_id"`
	ApprovedByID    *string     `gorm:"type:varchar(64)" json:"approved_by_id"`
	SubmittedAt     *time.Time  `json:"submitted_at"`
	ApprovedAt      *time.Time  `json:"approved_at"`
	OrderedAt       *time.Time  `json:"ordered_at"`
	ReceivedAt      *time.Time  `json:"received_at"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}
