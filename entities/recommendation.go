package entities

import (
	"time"

	"agrotips/pkg/engine"
)

// RecommendationRecord is one computed recommendation kept in the farmer's history.
type RecommendationRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestID string `gorm:"uniqueIndex;size:36" json:"request_id"`
	FarmerID  string `gorm:"index" json:"farmer_id"`

	CropType              string `json:"crop_type"`
	SoilType              string `json:"soil_type"`
	FieldSizeAcres        string `json:"field_size_acres"`
	GrowthStage           string `json:"growth_stage"`
	HasRainSensor         bool   `json:"has_rain_sensor"`
	HasSoilMoistureSensor bool   `json:"has_soil_moisture_sensor"`

	DailyWaterNeedLiters      int     `json:"daily_water_need_liters"`
	WaterSavedLiters          int     `json:"water_saved_liters"`
	PercentSavedVsTraditional int     `json:"percent_saved_vs_traditional"`
	ScheduleAdvice            string  `json:"schedule_advice"`
	EstimatedDailyCost        float64 `json:"estimated_daily_cost"`
	FertilizerAdvice          string  `json:"fertilizer_advice"`
	ForecastNote              string  `json:"forecast_note,omitempty"`

	Explanation engine.Explanation `gorm:"serializer:json" json:"explanation"`

	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the farm profile the record was computed from.
func (r *RecommendationRecord) Profile() engine.FarmProfile {
	return engine.FarmProfile{
		CropType:              r.CropType,
		SoilType:              r.SoilType,
		FieldSizeAcres:        engine.FieldSize(r.FieldSizeAcres),
		GrowthStage:           r.GrowthStage,
		HasRainSensor:         r.HasRainSensor,
		HasSoilMoistureSensor: r.HasSoilMoistureSensor,
	}
}

// Recommendation rebuilds the engine output stored in the record.
func (r *RecommendationRecord) Recommendation() engine.IrrigationRecommendation {
	return engine.IrrigationRecommendation{
		DailyWaterNeedLiters:      r.DailyWaterNeedLiters,
		WaterSavedLiters:          r.WaterSavedLiters,
		PercentSavedVsTraditional: r.PercentSavedVsTraditional,
		ScheduleAdvice:            r.ScheduleAdvice,
		EstimatedDailyCost:        r.EstimatedDailyCost,
		FertilizerAdvice:          r.FertilizerAdvice,
		ForecastNote:              r.ForecastNote,
		Explanation:               r.Explanation,
	}
}
