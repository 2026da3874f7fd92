package engine

import "math"

const (
	scheduleDaily    = "Water once daily in the morning"
	scheduleSandy    = "Water twice daily in small amounts"
	scheduleClay     = "Water every other day but deeply"
	scheduleRainSkip = " and skip during rainfall"
	soilKeySandy     = "sandy"
	soilKeyClay      = "clay"
)

// WaterDemandResult carries the unrounded figures of one water estimate
// together with the lookups and defaults that produced them.
type WaterDemandResult struct {
	WaterNeedPerSqMeter float64
	SoilFactor          float64
	AreaSqMeters        float64
	TechnologyFactor    float64

	CropKnown     bool
	SoilKnown     bool
	AreaDefaulted bool

	RawLiters          float64
	OptimizedLiters    float64
	TraditionalLiters  float64
	SavedLiters        float64
	PercentSaved       float64
	EstimatedDailyCost float64
	ScheduleAdvice     string
}

// ComputeWaterDemand estimates the daily water need of a field. It never
// fails: unknown crops and soils use the default table entries and a bad
// field size uses the fallback area.
func (e *Engine) ComputeWaterDemand(p FarmProfile) WaterDemandResult {
	var r WaterDemandResult
	r.WaterNeedPerSqMeter, r.CropKnown = e.tables.CropWaterNeed(p.CropType)
	r.SoilFactor, r.SoilKnown = e.tables.SoilFactor(p.SoilType)
	r.AreaSqMeters, r.AreaDefaulted = e.consts.AreaSqMeters(p.FieldSizeAcres)

	r.RawLiters = r.WaterNeedPerSqMeter * r.SoilFactor * r.AreaSqMeters
	r.TechnologyFactor = e.consts.TechnologyFactor(p.HasRainSensor, p.HasSoilMoistureSensor)
	r.OptimizedLiters = r.RawLiters * r.TechnologyFactor
	r.TraditionalLiters = r.RawLiters * e.consts.TraditionalFactor
	r.SavedLiters = r.TraditionalLiters - r.OptimizedLiters
	if r.TraditionalLiters > 0 {
		r.PercentSaved = 100 * r.SavedLiters / r.TraditionalLiters
	}
	r.EstimatedDailyCost = math.Round(r.OptimizedLiters * e.consts.CostPerLiter)
	r.ScheduleAdvice = scheduleFor(Normalize(p.SoilType), p.HasRainSensor)
	return r
}

func scheduleFor(soilKey string, rainSensor bool) string {
	s := scheduleDaily
	switch soilKey {
	case soilKeySandy:
		s = scheduleSandy
	case soilKeyClay:
		s = scheduleClay
	}
	if rainSensor {
		s += scheduleRainSkip
	}
	return s
}
