// pkg/weather/client.go

package weather

import "context"

const (
	SourceMock  = "mock"
	SourceLive  = "openweather"
	SourceCache = "cache"
)

type Current struct {
	TempC       float64 `json:"temp_c"`
	HumidityPct int     `json:"humidity_pct"`
	WindKmh     float64 `json:"wind_kmh"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
}

type Day struct {
	Day           string  `json:"day"`
	TempC         float64 `json:"temp_c"`
	Icon          string  `json:"icon"`
	RainChancePct int     `json:"rain_chance_pct"`
}

type Report struct {
	Current          Current  `json:"current"`
	Forecast         []Day    `json:"forecast"`
	IrrigationAdvice []string `json:"irrigation_advice"`
	Source           string   `json:"source"`
}

// Client provides the weather report shown next to recommendations.
// Implementations must not fail a recommendation: a nil error with a
// degraded Source is preferred over an error.
type Client interface {
	Report(ctx context.Context) (Report, error)
	Mode() string
}
