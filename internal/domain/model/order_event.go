package model

import "time"

// 注文のステータス遷移ごとに外部へ流すイベント。
type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    string      `json:"order_id"`
	TeamID     string      `json:"team_id"`
	ActorID    string      `json:"actor_id"`
	From       OrderStatus `json:"from,omitempty"`
	To         OrderStatus `json:"to"`
	TotalCents int64       `json:"total_cents"`
	Reason     *string     `json:"reason,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
