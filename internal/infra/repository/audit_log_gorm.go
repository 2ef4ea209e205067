package repository

import (
	"context"

	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

// 監査ログの上限件数（1対象あたり）
const maxAuditLogs = 200

func (r *auditLogGormRepository) ListByResource(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxAuditLogs {
		limit = maxAuditLogs
	}

	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND resource_type = ? AND resource_id = ?", f.TeamID, f.ResourceType, f.ResourceID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, mapError(err)
	}
	return logs, nil
}
