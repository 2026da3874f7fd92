package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"agrotips/config"
	"agrotips/database"
	"agrotips/pkg/engine"
	"agrotips/pkg/logging"
	"agrotips/pkg/rules"
	"agrotips/router"

	// Auth
	authCtrlImp "agrotips/pkg/auth/controllerImp"

	// Recommend
	recCtrlImp "agrotips/pkg/recommend/controllerImp"
	recRepoImp "agrotips/pkg/recommend/repositoryImp"
	recSvcImp "agrotips/pkg/recommend/serviceImp"

	// Weather
	"agrotips/pkg/weather"
	weatherCtrlImp "agrotips/pkg/weather/controllerImp"

	// Health
	healthCtrlImp "agrotips/pkg/health/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range cfg.Warnings {
		logger.Warn("config", zap.String("warning", w))
	}
	logger.Info("config loaded", zap.Any("config", cfg.Redacted()))

	// 2) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	// 3) Lookup tables
	tables, rep, err := rules.LoadFromFiles(cfg.CropTableCSV, cfg.SoilTableCSV, cfg.FertilizerXLSX)
	if err != nil {
		logger.Fatal("rule tables", zap.Error(err))
	}
	logger.Info("rule tables loaded",
		zap.Int("crop_rows", rep.CropRows),
		zap.Int("soil_rows", rep.SoilRows),
		zap.Int("fertilizer_rows", rep.FertilizerRows),
		zap.Int("skipped", rep.Skipped),
		zap.Strings("crops", tables.Crops()),
	)
	eng := engine.New(tables, cfg.Engine)

	// 4) Weather (mock fallback)
	var wx weather.Client
	if cfg.OWMAPIKey != "" {
		wx = weather.NewOpenWeather(cfg.WeatherConfig(), logger.Named("weather"))
	} else {
		wx = weather.NewMock()
	}
	logger.Info("weather provider", zap.String("mode", wx.Mode()))

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	// 6) Repos/Services/Controllers
	recRepo := recRepoImp.New(db)
	recSvc := recSvcImp.New(eng, recRepo, wx, logger.Named("recommend"))
	recCtrl := recCtrlImp.New(recSvc)
	wxCtrl := weatherCtrlImp.New(wx, cfg.WeatherTimeout*time.Duration(cfg.WeatherRetries+1))
	authCtrl := authCtrlImp.NewAuthController()
	hCtrl := healthCtrlImp.NewHealthCtrl(db, wx.Mode(), tables, rep)

	r := router.New(e, recCtrl, wxCtrl, authCtrl, hCtrl)

	// 7) Start + graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}
