package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newAuthTestServer(key string) *echo.Echo {
	e := echo.New()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	e.HTTPErrorHandler = Error(logger)
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, APIKey(key))
	return e
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		authorization  string
		expectedStatus int
	}{
		{name: "empty key disables guard", key: "", authorization: "", expectedStatus: http.StatusOK},
		{name: "valid bearer token", key: "secret", authorization: "Bearer secret", expectedStatus: http.StatusOK},
		{name: "missing header", key: "secret", authorization: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong key", key: "secret", authorization: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", key: "secret", authorization: "Basic secret", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAuthTestServer(tt.key)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authorization != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authorization)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
