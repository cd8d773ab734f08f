package repo

import (
	"context"

	"gorm.io/gorm"

	"citydrive-motors/internal/domain"
)

type RemarkRepo struct{ db *gorm.DB }

func NewRemarkRepo(db *gorm.DB) *RemarkRepo { return &RemarkRepo{db: db} }

func (r *RemarkRepo) Create(ctx context.Context, rm *domain.Remark) error {
	return r.db.WithContext(ctx).Create(rm).Error
}

func (r *RemarkRepo) FindByCar(ctx context.Context, carID string) ([]domain.Remark, error) {
	var remarks []domain.Remark
	err := r.db.WithContext(ctx).
		Preload("User", publicUser).
		Where("car_id = ?", carID).
		Order("created_at DESC").
		Find(&remarks).Error
	return remarks, err
}
