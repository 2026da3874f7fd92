// Package metrics provides Prometheus metrics for the advisory service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecommendationsTotal tracks computed recommendations by lookup outcome
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrotips",
			Subsystem: "engine",
			Name:      "recommendations_total",
			Help:      "Total number of recommendations computed",
		},
		[]string{"crop_known", "soil_known"},
	)

	// DefaultsTotal tracks silent fallbacks by kind (area, crop, soil, fertilizer)
	DefaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrotips",
			Subsystem: "engine",
			Name:      "defaults_total",
			Help:      "Total number of default table entries or fallback values applied",
		},
		[]string{"kind"},
	)

	// WeatherRequestsTotal tracks weather lookups by source and outcome
	WeatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrotips",
			Subsystem: "weather",
			Name:      "requests_total",
			Help:      "Total number of weather report requests",
		},
		[]string{"source", "status"},
	)

	// HTTPRequestDuration tracks inbound request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agrotips",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)
)

// RecordRecommendation records one engine run and the defaults it applied.
func RecordRecommendation(cropKnown, soilKnown, stageKnown, areaDefaulted bool) {
	RecommendationsTotal.WithLabelValues(strconv.FormatBool(cropKnown), strconv.FormatBool(soilKnown)).Inc()
	if !cropKnown {
		DefaultsTotal.WithLabelValues("crop").Inc()
	}
	if !soilKnown {
		DefaultsTotal.WithLabelValues("soil").Inc()
	}
	if !stageKnown {
		DefaultsTotal.WithLabelValues("fertilizer").Inc()
	}
	if areaDefaulted {
		DefaultsTotal.WithLabelValues("area").Inc()
	}
}

// RecordWeather records a weather lookup
func RecordWeather(source, status string) {
	WeatherRequestsTotal.WithLabelValues(source, status).Inc()
}

// Middleware observes request duration per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			HTTPRequestDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
