package repository

import (
	"context"

	"agrotips/entities"
)

type RecommendationRepository interface {
	Create(ctx context.Context, r *entities.RecommendationRecord) error
	ListByFarmer(ctx context.Context, farmerID string, limit int) ([]entities.RecommendationRecord, error)
	FindByID(ctx context.Context, id uint, farmerID string) (*entities.RecommendationRecord, error)
}
