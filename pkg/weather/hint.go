package weather

import "agrotips/pkg/engine"

// HintFrom picks the forecast day with the highest rain chance. The first
// day wins a tie. nil when the report has no forecast.
func HintFrom(r Report) *engine.ForecastHint {
	if len(r.Forecast) == 0 {
		return nil
	}
	best := r.Forecast[0]
	for _, d := range r.Forecast[1:] {
		if d.RainChancePct > best.RainChancePct {
			best = d
		}
	}
	return &engine.ForecastHint{Day: best.Day, RainChancePct: best.RainChancePct, TempC: best.TempC}
}
