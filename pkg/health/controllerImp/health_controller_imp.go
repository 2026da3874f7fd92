package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"agrotips/pkg/engine"
	"agrotips/pkg/rules"
)

var appStart = time.Now()

type HealthCtrl struct {
	db          *gorm.DB
	weatherMode string
	tables      *engine.Tables
	loaded      rules.Report
}

// NewHealthCtrl reports on the database, the weather provider and the lookup
// tables the engine was started with. nil tables means the built-in ones.
func NewHealthCtrl(db *gorm.DB, weatherMode string, tables *engine.Tables, loaded rules.Report) *HealthCtrl {
	if tables == nil {
		tables = engine.DefaultTables()
	}
	return &HealthCtrl{db: db, weatherMode: weatherMode, tables: tables, loaded: loaded}
}

type tablesCheck struct {
	OK             bool     `json:"ok"`
	Source         string   `json:"source"`
	Crops          []string `json:"crops"`
	Soils          []string `json:"soils"`
	CropRows       int      `json:"crop_rows"`
	SoilRows       int      `json:"soil_rows"`
	FertilizerRows int      `json:"fertilizer_rows"`
	Skipped        int      `json:"skipped"`
}

func (h *HealthCtrl) tablesSummary() tablesCheck {
	src := "builtin"
	if h.loaded.CropRows+h.loaded.SoilRows+h.loaded.FertilizerRows > 0 {
		src = "files"
	}
	return tablesCheck{
		OK:             len(h.tables.Crops()) > 0 && len(h.tables.Soils()) > 0,
		Source:         src,
		Crops:          h.tables.Crops(),
		Soils:          h.tables.Soils(),
		CropRows:       h.loaded.CropRows,
		SoilRows:       h.loaded.SoilRows,
		FertilizerRows: h.loaded.FertilizerRows,
		Skipped:        h.loaded.Skipped,
	}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	tables := h.tablesSummary()
	allOK := dbOK && tables.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK   bool   `json:"ok"`
		Err  string `json:"err,omitempty"`
		Mode string `json:"mode,omitempty"`
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": sub{OK: dbOK, Err: dbErr},
			// weather always degrades to cached or mock data, so it never fails health
			"weather": sub{OK: true, Mode: h.weatherMode},
			"tables":  tables,
		},
		"time": time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}
