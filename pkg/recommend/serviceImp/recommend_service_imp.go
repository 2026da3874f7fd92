package serviceImp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrotips/entities"
	"agrotips/pkg/engine"
	"agrotips/pkg/metrics"
	"agrotips/pkg/recommend/repository"
	"agrotips/pkg/recommend/service"
	"agrotips/pkg/weather"
)

type recommendService struct {
	eng  *engine.Engine
	repo repository.RecommendationRepository
	wx   weather.Client
	log  *zap.Logger
}

// New wires the service. wx may be nil, in which case forecast requests are
// answered without a note.
func New(eng *engine.Engine, repo repository.RecommendationRepository, wx weather.Client, log *zap.Logger) service.RecommendService {
	if log == nil {
		log = zap.NewNop()
	}
	return &recommendService{eng: eng, repo: repo, wx: wx, log: log}
}

func (s *recommendService) Recommend(ctx context.Context, farmerID string, req service.Request) (*service.Result, error) {
	hint := s.forecastHint(ctx, req.UseForecast)
	rec := s.eng.ComputeRecommendation(req.Profile, hint)
	x := rec.Explanation
	metrics.RecordRecommendation(x.CropKnown, x.SoilKnown, x.StageKnown, x.AreaDefaulted)

	p := req.Profile
	row := &entities.RecommendationRecord{
		RequestID:                 uuid.NewString(),
		FarmerID:                  farmerID,
		CropType:                  p.CropType,
		SoilType:                  p.SoilType,
		FieldSizeAcres:            string(p.FieldSizeAcres),
		GrowthStage:               p.GrowthStage,
		HasRainSensor:             p.HasRainSensor,
		HasSoilMoistureSensor:     p.HasSoilMoistureSensor,
		DailyWaterNeedLiters:      rec.DailyWaterNeedLiters,
		WaterSavedLiters:          rec.WaterSavedLiters,
		PercentSavedVsTraditional: rec.PercentSavedVsTraditional,
		ScheduleAdvice:            rec.ScheduleAdvice,
		EstimatedDailyCost:        rec.EstimatedDailyCost,
		FertilizerAdvice:          rec.FertilizerAdvice,
		ForecastNote:              rec.ForecastNote,
		Explanation:               rec.Explanation,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("save recommendation: %w", err)
	}
	s.log.Info("recommendation computed",
		zap.String("request_id", row.RequestID),
		zap.String("farmer_id", farmerID),
		zap.String("crop", p.CropType),
		zap.String("soil", p.SoilType),
		zap.Int("daily_liters", rec.DailyWaterNeedLiters),
		zap.Bool("area_defaulted", x.AreaDefaulted),
		zap.Bool("forecast", hint != nil),
	)
	return &service.Result{Record: row, Recommendation: rec}, nil
}

func (s *recommendService) forecastHint(ctx context.Context, want bool) *engine.ForecastHint {
	if !want || s.wx == nil {
		return nil
	}
	r, err := s.wx.Report(ctx)
	if err != nil {
		s.log.Warn("forecast unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return weather.HintFrom(r)
}

func (s *recommendService) History(ctx context.Context, farmerID string, limit int) ([]entities.RecommendationRecord, error) {
	switch {
	case limit <= 0:
		limit = service.DefaultHistoryLimit
	case limit > service.MaxHistoryLimit:
		limit = service.MaxHistoryLimit
	}
	out, err := s.repo.ListByFarmer(ctx, farmerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

func (s *recommendService) Get(ctx context.Context, farmerID string, id uint) (*entities.RecommendationRecord, error) {
	rec, err := s.repo.FindByID(ctx, id, farmerID)
	if err != nil {
		return nil, fmt.Errorf("find recommendation %d: %w", id, err)
	}
	return rec, nil
}
