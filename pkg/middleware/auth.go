package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// APIKey guards routes behind a static bearer key. An empty key disables the
// guard. Comparison is constant time.
func APIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			provided, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return httperror.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				return httperror.NewHTTPError(http.StatusUnauthorized, "invalid API key")
			}

			return next(c)
		}
	}
}
