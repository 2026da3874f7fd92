package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func resolve(t *testing.T, req *http.Request) string {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	var got string
	err := Farmer()(func(c echo.Context) error {
		got = FarmerID(c)
		return nil
	})(c)
	assert.NoError(t, err)
	return got
}

func TestFarmer(t *testing.T) {
	t.Run("should prefer the header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(FarmerHeader, " f-1 ")
		req.AddCookie(&http.Cookie{Name: FarmerCookie, Value: "f-2"})
		assert.Equal(t, "f-1", resolve(t, req))
	})

	t.Run("should read the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: FarmerCookie, Value: "f-2"})
		assert.Equal(t, "f-2", resolve(t, req))
	})

	t.Run("should default to anonymous", func(t *testing.T) {
		assert.Equal(t, AnonymousFarmer, resolve(t, httptest.NewRequest(http.MethodGet, "/", nil)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(FarmerHeader, strings.Repeat("x", 65))
		assert.Equal(t, AnonymousFarmer, resolve(t, req))
	})

	t.Run("should be anonymous without the middleware", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		assert.Equal(t, AnonymousFarmer, FarmerID(c))
	})
}
