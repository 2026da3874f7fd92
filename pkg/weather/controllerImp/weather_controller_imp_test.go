package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotips/pkg/weather"
)

func TestWeatherCtrlGet(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, New(weather.NewMock(), time.Second).Get(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got weather.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, weather.SourceMock, got.Source)
	assert.Equal(t, "Partly Cloudy", got.Current.Condition)
	assert.Len(t, got.Forecast, 5)
}
