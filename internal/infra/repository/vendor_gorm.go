package repository

import (
	"context"

	"buildseason/internal/domain/model"

	"gorm.io/gorm"
)

type VendorGormRepository struct {
	db *gorm.DB
}

func NewVendorGormRepository(db *gorm.DB) *VendorGormRepository {
	return &VendorGormRepository{db: db}
}

func visibleTo(teamID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(is_global = ? OR team_id = ?)", true, teamID)
	}
}

func (r *VendorGormRepository) ListVisible(ctx context.Context, teamID string) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(teamID)).
		Order("name asc").
		Find(&vendors).Error
	if err != nil {
		return []model.Vendor{}, err
	}
	return vendors, nil
}

func (r *VendorGormRepository) FindVisible(ctx context.Context, teamID string, vendorID string) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(teamID)).
		Where("id = ?", vendorID).
		First(&v).Error
	if err != nil {
		return model.Vendor{}, mapError(err)
	}
	return v, nil
}
