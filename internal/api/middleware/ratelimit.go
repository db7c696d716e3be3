package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/medical-records-api/internal/core/ports"
)

// RateLimit throttles credential endpoints per client IP. The limiter failing
// (redis down) must not take logins down with it, so errors allow the request
// through.
func RateLimit(limiter ports.RateLimiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := scope + ":" + c.RealIP()

			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				return next(c)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
