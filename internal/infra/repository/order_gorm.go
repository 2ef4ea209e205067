package repository

import (
	"context"
	"time"

	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, teamID string, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", orderID, teamID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapError(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, teamID string, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND team_id = ?", orderID, teamID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapError(err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).Scopes(orderFilterScope(f))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// フィルタ値をWHEREに変換する
func orderFilterScope(f repo.OrderListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("team_id = ?", f.TeamID)
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		return db
	}
}

type statusCountRow struct {
	Status model.OrderStatus
	Count  int64
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context, teamID string) (map[model.OrderStatus]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, count(*) AS count").
		Where("team_id = ?", teamID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) error {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *OrderGormRepository) UpdateDetails(ctx context.Context, orderID string, vendorID *string, notes *string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"vendor_id":  vendorID,
			"notes":      notes,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID string, totalCents int64, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"total_cents": totalCents,
			"updated_at":  updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, from model.OrderStatus, upd repo.StatusUpdate) error {
	cols := map[string]interface{}{
		"status":     upd.Status,
		"updated_at": upd.UpdatedAt,
	}
	if upd.RejectionReason != nil {
		cols["rejection_reason"] = upd.RejectionReason
	}
	if upd.ApprovedByID != nil {
		cols["approved_by_id"] = upd.ApprovedByID
	}
	if upd.SubmittedAt != nil {
		cols["submitted_at"] = upd.SubmittedAt
	}
	if upd.ApprovedAt != nil {
		cols["approved_at"] = upd.ApprovedAt
	}
	if upd.OrderedAt != nil {
		cols["ordered_at"] = upd.OrderedAt
	}
	if upd.ReceivedAt != nil {
		cols["received_at"] = upd.ReceivedAt
	}

	//現在のステータスが from のときだけ書き換える
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}
