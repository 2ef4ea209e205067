package repository

import (
	"context"

	"buildseason/internal/domain/model"
)

// 1つの対象（注文・部品）の履歴を引く条件。TeamIDは必須。
type AuditLogFilter struct {
	TeamID       string
	ResourceType model.AuditResourceType
	ResourceID   string
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 古い順
	ListByResource(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
