// pkg/weather/owm_client.go

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"agrotips/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/3.0/onecall"
	forecastDays   = 5
)

type Config struct {
	BaseURL      string
	APIKey       string
	Lat, Lon     float64
	Timeout      time.Duration
	BreakerFails int
	BreakerOpen  time.Duration
	Retries      int
	RetryInitial time.Duration
	RainSkipPct  int
}

type owmWeather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmResp struct {
	TimezoneOffset int64 `json:"timezone_offset"`
	Current        struct {
		Temp      float64      `json:"temp"`
		Humidity  int          `json:"humidity"`
		WindSpeed float64      `json:"wind_speed"`
		Weather   []owmWeather `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Day float64 `json:"day"`
		} `json:"temp"`
		Pop     float64      `json:"pop"`
		Weather []owmWeather `json:"weather"`
	} `json:"daily"`
}

type owmClient struct {
	cfg  Config
	http *http.Client
	cb   *gobreaker.CircuitBreaker
	log  *zap.Logger

	mu       sync.RWMutex
	lastGood *Report
}

// NewOpenWeather returns a live OpenWeather One Call client. Failed lookups
// fall back to the last good report, then to the built-in mock report.
func NewOpenWeather(cfg Config, log *zap.Logger) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.BreakerFails <= 0 {
		cfg.BreakerFails = 3
	}
	if cfg.BreakerOpen <= 0 {
		cfg.BreakerOpen = 30 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryInitial <= 0 {
		cfg.RetryInitial = 200 * time.Millisecond
	}
	if cfg.RainSkipPct <= 0 {
		cfg.RainSkipPct = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	fails := cfg.BreakerFails
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openweather",
		Timeout: cfg.BreakerOpen,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &owmClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		cb:   cb,
		log:  log,
	}
}

func (c *owmClient) Mode() string { return SourceLive }

func (c *owmClient) Report(ctx context.Context) (Report, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetchWithRetry(ctx)
	})
	if err == nil {
		r := res.(Report)
		c.mu.Lock()
		c.lastGood = &r
		c.mu.Unlock()
		metrics.RecordWeather(SourceLive, "ok")
		return r, nil
	}

	c.mu.RLock()
	last := c.lastGood
	c.mu.RUnlock()
	if last != nil {
		c.log.Warn("weather lookup failed, serving last good report", zap.Error(err))
		metrics.RecordWeather(SourceCache, "fallback")
		r := *last
		r.Source = SourceCache
		return r, nil
	}
	c.log.Warn("weather lookup failed, serving mock report", zap.Error(err))
	metrics.RecordWeather(SourceMock, "fallback")
	return mockReport(), nil
}

func (c *owmClient) fetchWithRetry(ctx context.Context) (Report, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryInitial
	bo.MaxElapsedTime = 0

	var out Report
	op := func() error {
		r, err := c.fetch(ctx)
		if err != nil {
			c.log.Debug("weather fetch attempt failed", zap.Error(err))
			return err
		}
		out = r
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.Retries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return Report{}, err
	}
	return out, nil
}

func (c *owmClient) fetch(ctx context.Context) (Report, error) {
	if c.cfg.APIKey == "" {
		return Report{}, backoff.Permanent(errors.New("missing api key"))
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s?lat=%f&lon=%f&exclude=minutely,hourly,alerts&units=metric&appid=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Lat, c.cfg.Lon, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Report{}, backoff.Permanent(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		err := fmt.Errorf("owm status %d: %s", resp.StatusCode, string(b))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return Report{}, backoff.Permanent(err)
		}
		return Report{}, err
	}
	var out owmResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Report{}, fmt.Errorf("decode owm: %w", err)
	}
	if len(out.Daily) == 0 {
		return Report{}, errors.New("no daily data")
	}
	return c.toReport(out), nil
}

func (c *owmClient) toReport(o owmResp) Report {
	r := Report{
		Current: Current{
			TempC:       o.Current.Temp,
			HumidityPct: o.Current.Humidity,
			WindKmh:     math.Round(o.Current.WindSpeed*3.6*10) / 10,
			Condition:   condition(o.Current.Weather),
			Icon:        icon(o.Current.Weather),
		},
		Source: SourceLive,
	}
	for i, d := range o.Daily {
		if i == forecastDays {
			break
		}
		r.Forecast = append(r.Forecast, Day{
			Day:           dayLabel(i, d.Dt, o.TimezoneOffset),
			TempC:         math.Round(d.Temp.Day),
			Icon:          icon(d.Weather),
			RainChancePct: int(math.Round(d.Pop * 100)),
		})
	}
	r.IrrigationAdvice = adviceFor(r, c.cfg.RainSkipPct)
	return r
}

func dayLabel(i int, dt, offset int64) string {
	switch i {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	return time.Unix(dt+offset, 0).UTC().Weekday().String()
}

func condition(ws []owmWeather) string {
	if len(ws) == 0 {
		return ""
	}
	d := ws[0].Description
	if d == "" {
		return ws[0].Main
	}
	r, size := utf8.DecodeRuneInString(d)
	if r == utf8.RuneError {
		return d
	}
	return string(unicode.ToUpper(r)) + d[size:]
}

func icon(ws []owmWeather) string {
	if len(ws) == 0 {
		return "🌤️"
	}
	switch ws[0].Main {
	case "Clear":
		return "☀️"
	case "Clouds":
		if strings.Contains(ws[0].Description, "few") {
			return "🌤️"
		}
		return "⛅"
	case "Rain", "Drizzle", "Thunderstorm":
		return "🌧️"
	}
	return "🌤️"
}

// adviceFor derives the short irrigation notes shown under the forecast.
func adviceFor(r Report, rainSkipPct int) []string {
	var out []string
	if len(r.Forecast) > 1 && r.Forecast[1].RainChancePct < 20 {
		out = append(out, "Based on upcoming dry conditions, consider irrigating tomatoes and peppers tomorrow")
	}
	for _, d := range r.Forecast {
		if d.RainChancePct >= rainSkipPct {
			out = append(out, fmt.Sprintf("Rain expected on %s - hold off on irrigation for field crops", d.Day))
			break
		}
	}
	if r.Current.HumidityPct > 0 && r.Current.HumidityPct < 70 {
		out = append(out, "Soil moisture levels expected to drop - monitor crops with shallow roots")
	}
	return out
}
