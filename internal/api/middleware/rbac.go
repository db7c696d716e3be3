package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/api/metrics"
)

// AdminOnly rejects any request whose attached claims do not carry the admin
// role. Runs only after Authenticate.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}
			if !claims.IsAdmin() {
				metrics.AuthzDenialsTotal.WithLabelValues("role").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}
