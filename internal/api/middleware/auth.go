package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

const claimsKey = "auth_claims"

// Authenticate extracts the bearer token, verifies it through the auth
// service and attaches the decoded claims to the request context. This is the
// only place a token is decoded.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims attached by Authenticate, or nil when the
// middleware has not run on this request.
func ClaimsFrom(c echo.Context) *domain.AuthClaims {
	claims, _ := c.Get(claimsKey).(*domain.AuthClaims)
	return claims
}
