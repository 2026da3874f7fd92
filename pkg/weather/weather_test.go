package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-03 is a Monday.
const owmBody = `{
  "timezone_offset": 0,
  "current": {"temp": 31.2, "humidity": 55, "wind_speed": 5, "weather": [{"main": "Clouds", "description": "scattered clouds"}]},
  "daily": [
    {"dt": 1717416000, "temp": {"day": 31.4}, "pop": 0.1, "weather": [{"main": "Clear"}]},
    {"dt": 1717502400, "temp": {"day": 30.6}, "pop": 0.05, "weather": [{"main": "Clear"}]},
    {"dt": 1717588800, "temp": {"day": 29}, "pop": 0.2, "weather": [{"main": "Clouds"}]},
    {"dt": 1717675200, "temp": {"day": 27}, "pop": 0.8, "weather": [{"main": "Rain"}]},
    {"dt": 1717761600, "temp": {"day": 26}, "pop": 0.8, "weather": [{"main": "Rain"}]},
    {"dt": 1717848000, "temp": {"day": 25}, "pop": 0.9, "weather": [{"main": "Rain"}]}
  ]
}`

func testConfig(url string) Config {
	return Config{
		BaseURL:      url,
		APIKey:       "k",
		Timeout:      time.Second,
		BreakerFails: 3,
		BreakerOpen:  time.Minute,
		Retries:      2,
		RetryInitial: time.Millisecond,
	}
}

func TestMockClient(t *testing.T) {
	r, err := NewMock().Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceMock, r.Source)
	assert.Equal(t, 28.0, r.Current.TempC)
	assert.Len(t, r.Forecast, 5)
	assert.Len(t, r.IrrigationAdvice, 3)
}

func TestHintFrom(t *testing.T) {
	t.Run("should pick the rainiest day", func(t *testing.T) {
		h := HintFrom(mockReport())
		require.NotNil(t, h)
		assert.Equal(t, "Friday", h.Day)
		assert.Equal(t, 70, h.RainChancePct)
		assert.Equal(t, 26.0, h.TempC)
	})

	t.Run("should keep the first day on a tie", func(t *testing.T) {
		h := HintFrom(Report{Forecast: []Day{{Day: "Today", RainChancePct: 40}, {Day: "Tomorrow", RainChancePct: 40}}})
		require.NotNil(t, h)
		assert.Equal(t, "Today", h.Day)
	})

	t.Run("should return nil without a forecast", func(t *testing.T) {
		assert.Nil(t, HintFrom(Report{}))
	})
}

func TestCondition(t *testing.T) {
	for _, tc := range []struct {
		in   []owmWeather
		want string
	}{
		{nil, ""},
		{[]owmWeather{{Main: "Rain"}}, "Rain"},
		{[]owmWeather{{Description: "light rain"}}, "Light rain"},
		{[]owmWeather{{Description: "éclaircies"}}, "Éclaircies"},
		{[]owmWeather{{Description: "ясно"}}, "Ясно"},
	} {
		got := condition(tc.in)
		assert.Equal(t, tc.want, got)
		assert.True(t, utf8.ValidString(got), got)
	}
}

func TestOpenWeatherClient(t *testing.T) {
	t.Run("should map a live response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "k", r.URL.Query().Get("appid"))
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			_, _ = w.Write([]byte(owmBody))
		}))
		defer srv.Close()

		r, err := NewOpenWeather(testConfig(srv.URL), nil).Report(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceLive, r.Source)
		assert.Equal(t, 31.2, r.Current.TempC)
		assert.Equal(t, 18.0, r.Current.WindKmh)
		assert.Equal(t, "Scattered clouds", r.Current.Condition)
		require.Len(t, r.Forecast, 5)
		assert.Equal(t, "Today", r.Forecast[0].Day)
		assert.Equal(t, "Tomorrow", r.Forecast[1].Day)
		assert.Equal(t, "Wednesday", r.Forecast[2].Day)
		assert.Equal(t, 80, r.Forecast[3].RainChancePct)
		assert.Equal(t, "🌧️", r.Forecast[3].Icon)
		assert.Equal(t, []string{
			"Based on upcoming dry conditions, consider irrigating tomatoes and peppers tomorrow",
			"Rain expected on Thursday - hold off on irrigation for field crops",
			"Soil moisture levels expected to drop - monitor crops with shallow roots",
		}, r.IrrigationAdvice)

		h := HintFrom(r)
		assert.Equal(t, "Thursday", h.Day)
	})

	t.Run("should retry then fall back to the mock report", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		r, err := NewOpenWeather(testConfig(srv.URL), nil).Report(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceMock, r.Source)
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("should not retry client errors", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewOpenWeather(testConfig(srv.URL), nil).Report(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("should serve the last good report when upstream fails", func(t *testing.T) {
		var fail atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(owmBody))
		}))
		defer srv.Close()

		c := NewOpenWeather(testConfig(srv.URL), nil)
		_, err := c.Report(context.Background())
		require.NoError(t, err)

		fail.Store(true)
		r, err := c.Report(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceCache, r.Source)
		assert.Equal(t, 31.2, r.Current.TempC)
	})

	t.Run("should stop calling upstream once the breaker opens", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		cfg := testConfig(srv.URL)
		cfg.BreakerFails = 1
		cfg.Retries = 0
		c := NewOpenWeather(cfg, nil)
		for i := 0; i < 3; i++ {
			r, err := c.Report(context.Background())
			require.NoError(t, err)
			assert.Equal(t, SourceMock, r.Source)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}
