package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"agrotips/pkg/engine"
	"agrotips/pkg/middleware"
	"agrotips/pkg/recommend/controller"
	"agrotips/pkg/recommend/service"
)

var validate = validator.New()

type RecommendCtrl struct{ svc service.RecommendService }

func New(svc service.RecommendService) controller.RecommendController { return &RecommendCtrl{svc} }

// Free text is never rejected for content, only for length; unparsable
// sizes fall back to the default area.
type createReq struct {
	CropType              string           `json:"crop_type" validate:"max=64"`
	SoilType              string           `json:"soil_type" validate:"max=64"`
	FieldSizeAcres        engine.FieldSize `json:"field_size_acres" validate:"max=64"`
	GrowthStage           string           `json:"growth_stage" validate:"max=64"`
	HasRainSensor         bool             `json:"has_rain_sensor"`
	HasSoilMoistureSensor bool             `json:"has_soil_moisture_sensor"`
	UseForecast           bool             `json:"use_forecast"`
}

type createResp struct {
	ID             uint                            `json:"id"`
	RequestID      string                          `json:"request_id"`
	Recommendation engine.IrrigationRecommendation `json:"recommendation"`
}

func (h *RecommendCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	res, err := h.svc.Recommend(c.Request().Context(), middleware.FarmerID(c), service.Request{
		Profile: engine.FarmProfile{
			CropType:              req.CropType,
			SoilType:              req.SoilType,
			FieldSizeAcres:        req.FieldSizeAcres,
			GrowthStage:           req.GrowthStage,
			HasRainSensor:         req.HasRainSensor,
			HasSoilMoistureSensor: req.HasSoilMoistureSensor,
		},
		UseForecast: req.UseForecast,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, createResp{
		ID:             res.Record.ID,
		RequestID:      res.Record.RequestID,
		Recommendation: res.Recommendation,
	})
}

func (h *RecommendCtrl) List(c echo.Context) error {
	limit := 0
	if q := c.QueryParam("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = n
	}
	rows, err := h.svc.History(c.Request().Context(), middleware.FarmerID(c), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *RecommendCtrl) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	rec, err := h.svc.Get(c.Request().Context(), middleware.FarmerID(c), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}
