// Package engine is the irrigation and fertilizer recommendation engine.
// Every function is pure: the same profile always gives the same result and
// nothing is read or written outside the call.
package engine

import (
	"fmt"
	"math"
)

// FarmProfile is what the farmer typed into the form.
type FarmProfile struct {
	CropType              string    `json:"crop_type" yaml:"crop_type"`
	SoilType              string    `json:"soil_type" yaml:"soil_type"`
	FieldSizeAcres        FieldSize `json:"field_size_acres" yaml:"field_size_acres"`
	GrowthStage           string    `json:"growth_stage" yaml:"growth_stage"`
	HasRainSensor         bool      `json:"has_rain_sensor" yaml:"has_rain_sensor"`
	HasSoilMoistureSensor bool      `json:"has_soil_moisture_sensor" yaml:"has_soil_moisture_sensor"`
}

// ForecastHint is optional weather input. It only adds a forecast note and
// never changes the computed figures.
type ForecastHint struct {
	Day           string  `json:"day"`
	RainChancePct int     `json:"rain_chance_pct"`
	TempC         float64 `json:"temp_c"`
}

// Explanation lists the factors behind a recommendation so each one can be
// shown to the farmer.
type Explanation struct {
	WaterNeedPerSqMeter float64 `json:"water_need_l_per_sqm"`
	SoilFactor          float64 `json:"soil_factor"`
	AreaSqMeters        float64 `json:"area_sqm"`
	TechnologyFactor    float64 `json:"technology_factor"`
	TraditionalFactor   float64 `json:"traditional_factor"`
	CropKnown           bool    `json:"crop_known"`
	SoilKnown           bool    `json:"soil_known"`
	StageKnown          bool    `json:"stage_known"`
	AreaDefaulted       bool    `json:"area_defaulted"`
}

type IrrigationRecommendation struct {
	DailyWaterNeedLiters      int         `json:"daily_water_need_liters"`
	WaterSavedLiters          int         `json:"water_saved_liters"`
	PercentSavedVsTraditional int         `json:"percent_saved_vs_traditional"`
	ScheduleAdvice            string      `json:"schedule_advice"`
	EstimatedDailyCost        float64     `json:"estimated_daily_cost"`
	FertilizerAdvice          string      `json:"fertilizer_advice"`
	ForecastNote              string      `json:"forecast_note,omitempty"`
	Explanation               Explanation `json:"explanation"`
}

type Engine struct {
	tables *Tables
	consts Constants
}

// New builds an engine. nil tables means the built-in tables. Invalid
// constants are replaced by their defaults, see Constants.Sanitized.
func New(tables *Tables, consts Constants) *Engine {
	if tables == nil {
		tables = DefaultTables()
	}
	consts, _ = consts.Sanitized()
	return &Engine{tables: tables, consts: consts}
}

// Default is an engine with built-in tables and constants.
func Default() *Engine {
	return New(nil, DefaultConstants())
}

func (e *Engine) Tables() *Tables { return e.tables }

func (e *Engine) Constants() Constants { return e.consts }

// ComputeRecommendation runs the fertilizer advisor then the water demand
// calculator and merges the two. hint may be nil.
func (e *Engine) ComputeRecommendation(p FarmProfile, hint *ForecastHint) IrrigationRecommendation {
	fert, stageKnown := e.tables.Fertilizer(p.CropType, p.GrowthStage)
	w := e.ComputeWaterDemand(p)

	return IrrigationRecommendation{
		DailyWaterNeedLiters:      roundInt(w.OptimizedLiters),
		WaterSavedLiters:          roundInt(w.SavedLiters),
		PercentSavedVsTraditional: roundInt(w.PercentSaved),
		ScheduleAdvice:            w.ScheduleAdvice,
		EstimatedDailyCost:        w.EstimatedDailyCost,
		FertilizerAdvice:          fert,
		ForecastNote:              e.forecastNote(hint),
		Explanation: Explanation{
			WaterNeedPerSqMeter: w.WaterNeedPerSqMeter,
			SoilFactor:          w.SoilFactor,
			AreaSqMeters:        w.AreaSqMeters,
			TechnologyFactor:    w.TechnologyFactor,
			TraditionalFactor:   e.consts.TraditionalFactor,
			CropKnown:           w.CropKnown,
			SoilKnown:           w.SoilKnown,
			StageKnown:          stageKnown,
			AreaDefaulted:       w.AreaDefaulted,
		},
	}
}

func (e *Engine) forecastNote(h *ForecastHint) string {
	if h == nil {
		return ""
	}
	if h.RainChancePct >= e.consts.RainSkipThresholdPct {
		return fmt.Sprintf("Rain expected on %s (%d%% chance) - hold off on irrigation", h.Day, h.RainChancePct)
	}
	return "No significant rain expected - follow the schedule"
}

// roundInt saturates at the int range instead of wrapping.
func roundInt(v float64) int {
	r := math.Round(v)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt:
		return math.MaxInt
	case r <= math.MinInt:
		return math.MinInt
	}
	return int(r)
}
