package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"agrotips/pkg/engine"
	"agrotips/pkg/weather"
)

type AppConfig struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogPretty bool

	CropTableCSV   string
	SoilTableCSV   string
	FertilizerXLSX string

	Engine engine.Constants

	OWMAPIKey           string
	WeatherLat          float64
	WeatherLon          float64
	WeatherTimeout      time.Duration
	WeatherBreakerFails int
	WeatherBreakerOpen  time.Duration
	WeatherRetries      int

	// Warnings lists env values that were ignored. They are logged once the
	// logger exists.
	Warnings []string `json:"-"`
}

// Load reads .env if present, then the environment. Invalid numbers keep
// their default and add a warning.
func Load() AppConfig {
	var warnings []string
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		warnings = append(warnings, fmt.Sprintf(".env: %v", err))
	}
	return fromEnv(os.Getenv, warnings)
}

func fromEnv(lookup func(string) string, warnings []string) AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(lookup(k)); v != "" {
			return v
		}
		return def
	}
	getFloat := func(k string, def float64) float64 {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a finite non-negative number, using %v", k, raw, def))
			return def
		}
		return v
	}
	getCoord := func(k string) float64 {
		raw := get(k, "")
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v < -180 || v > 180 {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a coordinate, using 0", k, raw))
			return 0
		}
		return v
	}
	getInt := func(k string, def int) int {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a non-negative integer, using %d", k, raw, def))
			return def
		}
		return v
	}
	getBool := func(k string, def bool) bool {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a boolean, using %v", k, raw, def))
			return def
		}
		return v
	}
	ms := func(k string, def int) time.Duration {
		return time.Duration(getInt(k, def)) * time.Millisecond
	}

	d := engine.DefaultConstants()
	cfg := AppConfig{
		Port:      get("PORT", "8080"),
		DBPath:    get("DB_PATH", "agrotips.db"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogPretty: getBool("LOG_PRETTY", false),

		CropTableCSV:   get("CROP_TABLE_CSV", ""),
		SoilTableCSV:   get("SOIL_TABLE_CSV", ""),
		FertilizerXLSX: get("FERTILIZER_XLSX", ""),

		Engine: engine.Constants{
			SqMetersPerAcre:      getFloat("SQM_PER_ACRE", d.SqMetersPerAcre),
			FallbackAreaSqMeters: getFloat("FALLBACK_AREA_SQM", d.FallbackAreaSqMeters),
			MaxFieldAcres:        getFloat("MAX_FIELD_ACRES", d.MaxFieldAcres),
			TraditionalFactor:    getFloat("TRADITIONAL_FACTOR", d.TraditionalFactor),
			CostPerLiter:         getFloat("COST_PER_LITER", d.CostPerLiter),
			RainSensorFactor:     getFloat("RAIN_SENSOR_FACTOR", d.RainSensorFactor),
			MoistureSensorFactor: getFloat("MOISTURE_SENSOR_FACTOR", d.MoistureSensorFactor),
			RainSkipThresholdPct: getInt("RAIN_SKIP_PCT", d.RainSkipThresholdPct),
		},

		OWMAPIKey:           get("OWM_API_KEY", ""),
		WeatherLat:          getCoord("WEATHER_LAT"),
		WeatherLon:          getCoord("WEATHER_LON"),
		WeatherTimeout:      ms("WEATHER_TIMEOUT_MS", 3000),
		WeatherBreakerFails: getInt("WEATHER_BREAKER_FAILS", 3),
		WeatherBreakerOpen:  ms("WEATHER_BREAKER_OPEN_MS", 30000),
		WeatherRetries:      getInt("WEATHER_RETRIES", 3),
	}
	var reset []string
	cfg.Engine, reset = cfg.Engine.Sanitized()
	for _, field := range reset {
		warnings = append(warnings, fmt.Sprintf("%s is out of range, using the default", constantEnv[field]))
	}
	cfg.Warnings = warnings
	return cfg
}

var constantEnv = map[string]string{
	"SqMetersPerAcre":      "SQM_PER_ACRE",
	"FallbackAreaSqMeters": "FALLBACK_AREA_SQM",
	"MaxFieldAcres":        "MAX_FIELD_ACRES",
	"TraditionalFactor":    "TRADITIONAL_FACTOR",
	"CostPerLiter":         "COST_PER_LITER",
	"RainSensorFactor":     "RAIN_SENSOR_FACTOR",
	"MoistureSensorFactor": "MOISTURE_SENSOR_FACTOR",
	"RainSkipThresholdPct": "RAIN_SKIP_PCT",
}

// WeatherConfig is the live client configuration.
func (c AppConfig) WeatherConfig() weather.Config {
	return weather.Config{
		APIKey:       c.OWMAPIKey,
		Lat:          c.WeatherLat,
		Lon:          c.WeatherLon,
		Timeout:      c.WeatherTimeout,
		BreakerFails: c.WeatherBreakerFails,
		BreakerOpen:  c.WeatherBreakerOpen,
		Retries:      c.WeatherRetries,
		RainSkipPct:  c.Engine.RainSkipThresholdPct,
	}
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	if c.OWMAPIKey != "" {
		c.OWMAPIKey = "***"
	}
	c.Warnings = nil
	return c
}
