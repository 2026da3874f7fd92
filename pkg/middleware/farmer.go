package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	FarmerHeader    = "X-Farmer-Id"
	FarmerCookie    = "FARMER_ID"
	AnonymousFarmer = "anonymous"

	farmerKey = "farmer_id"
)

// Farmer resolves who is asking so history stays scoped per farmer. The
// header wins over the cookie; without either the request is anonymous.
func Farmer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(FarmerHeader))
			if id == "" {
				if ck, err := c.Cookie(FarmerCookie); err == nil {
					id = strings.TrimSpace(ck.Value)
				}
			}
			if id == "" || len(id) > 64 {
				id = AnonymousFarmer
			}
			c.Set(farmerKey, id)
			return next(c)
		}
	}
}

// FarmerID returns the id set by Farmer, or AnonymousFarmer when the
// middleware did not run.
func FarmerID(c echo.Context) string {
	if id, ok := c.Get(farmerKey).(string); ok && id != "" {
		return id
	}
	return AnonymousFarmer
}
