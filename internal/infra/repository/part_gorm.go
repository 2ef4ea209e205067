package repository

import (
	"context"
	"strings"

	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"

	"gorm.io/gorm"
)

type PartGormRepository struct {
	db *gorm.DB
}

// DI
func NewPartGormRepository(db *gorm.DB) *PartGormRepository {
	return &PartGormRepository{db: db}
}

// チームの部品を、検索/在庫少フィルタ付きで返す。
func (r *PartGormRepository) List(ctx context.Context, f repo.PartListFilter) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).
		Scopes(partFilterScope(f)).
		Order("name asc").Order("id asc").
		Find(&parts).Error
	if err != nil {
		return []model.Part{}, err
	}
	return parts, nil
}

func partFilterScope(f repo.PartListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("team_id = ?", f.TeamID)

		// name / sku / location を部分一致
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + escapeLike(s) + "%"
			db = db.Where("(name ILIKE ? OR sku ILIKE ? OR location ILIKE ?)", like, like, like)
		}

		if f.LowStock {
			db = db.Where("reorder_point > 0 AND quantity <= reorder_point")
		}
		return db
	}
}

// LIKEのワイルドカードを文字として扱う
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *PartGormRepository) FindByID(ctx context.Context, teamID string, partID string) (model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", partID, teamID).
		First(&p).Error
	if err != nil {
		return model.Part{}, mapError(err)
	}
	return p, nil
}

func (r *PartGormRepository) Create(ctx context.Context, p model.Part) error {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return mapError(err)
	}
	return nil
}
