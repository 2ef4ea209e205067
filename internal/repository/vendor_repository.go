package repository

import (
	"context"

	"buildseason/internal/domain/model"
)

// チームから見える仕入先 = 共通（is_global）+ そのチームのもの
type VendorRepository interface {
	ListVisible(ctx context.Context, teamID string) ([]model.Vendor, error)
	FindVisible(ctx context.Context, teamID string, vendorID string) (model.Vendor, error)
}
