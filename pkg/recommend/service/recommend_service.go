package service

import (
	"context"

	"agrotips/entities"
	"agrotips/pkg/engine"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type Request struct {
	Profile     engine.FarmProfile
	UseForecast bool
}

type Result struct {
	Record         *entities.RecommendationRecord
	Recommendation engine.IrrigationRecommendation
}

type RecommendService interface {
	// Recommend computes a recommendation and stores it in the farmer's history.
	// A weather failure never fails the call; the forecast note is left empty.
	Recommend(ctx context.Context, farmerID string, req Request) (*Result, error)
	History(ctx context.Context, farmerID string, limit int) ([]entities.RecommendationRecord, error)
	Get(ctx context.Context, farmerID string, id uint) (*entities.RecommendationRecord, error)
}
