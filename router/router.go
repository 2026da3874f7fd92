package router

import (
	"github.com/labstack/echo/v4"

	"agrotips/pkg/metrics"
	"agrotips/pkg/middleware"
)

func New(
	e *echo.Echo,
	recCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
		Get(echo.Context) error
	},
	weatherCtrl interface{ Get(echo.Context) error },
	authCtrl interface {
		DevLogin(echo.Context) error
		WhoAmI(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(metrics.Middleware())
	e.GET("/health", healthCtrl.Health)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("", middleware.Farmer())
	api.GET("/whoami", authCtrl.WhoAmI)
	api.GET("/devlogin", authCtrl.DevLogin)

	api.POST("/recommendations", recCtrl.Create)
	api.GET("/recommendations", recCtrl.List)
	api.GET("/recommendations/:id", recCtrl.Get)

	api.GET("/weather", weatherCtrl.Get)
	return e
}
