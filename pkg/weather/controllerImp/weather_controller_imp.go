package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agrotips/pkg/weather"
)

type WeatherCtrl struct {
	client  weather.Client
	timeout time.Duration
}

func New(client weather.Client, timeout time.Duration) *WeatherCtrl {
	return &WeatherCtrl{client: client, timeout: timeout}
}

func (h *WeatherCtrl) Get(c echo.Context) error {
	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	r, err := h.client.Report(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, r)
}
