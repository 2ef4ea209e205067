package repository

import (
	"context"

	"buildseason/internal/domain/model"
	domainrepo "buildseason/internal/repository"

	"gorm.io/gorm"
)

type memberGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてmiddlewareに注入します。
func NewMemberGormRepository(db *gorm.DB) domainrepo.MemberRepository {
	return &memberGormRepository{db: db}
}

func (r *memberGormRepository) FindRole(ctx context.Context, teamID string, userID string) (model.Role, error) {
	var m model.TeamMember

	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&m).Error
	if err != nil {
		return "", mapError(err)
	}

	return m.Role, nil
}
