package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agrotips/entities"
	"agrotips/pkg/recommend/repository"
)

type recommendRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.RecommendationRepository { return &recommendRepo{db} }

func (r *recommendRepo) Create(ctx context.Context, rec *entities.RecommendationRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendRepo) ListByFarmer(ctx context.Context, farmerID string, limit int) ([]entities.RecommendationRecord, error) {
	var out []entities.RecommendationRecord
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *recommendRepo) FindByID(ctx context.Context, id uint, farmerID string) (*entities.RecommendationRecord, error) {
	var rec entities.RecommendationRecord
	if err := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
