package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"agrotips/pkg/auth/controller"
	"agrotips/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// DevLogin pins a farmer id in a cookie so a browser keeps its history.
func (h *authCtrl) DevLogin(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("farmer_id"))
	if id == "" || len(id) > 64 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "farmer_id is required (max 64 chars)"})
	}
	c.SetCookie(&http.Cookie{Name: middleware.FarmerCookie, Value: id, Path: "/", HttpOnly: true})
	return c.JSON(http.StatusOK, map[string]string{"farmer_id": id})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"farmer_id": middleware.FarmerID(c)})
}
