package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/api/middleware"
	"github.com/medrec/medical-records-api/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Authenticate middleware.
// Returns 401 when the middleware did not run.
func ctxClaims(c echo.Context) (*domain.AuthClaims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}
	return claims, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid "+name)
	}
	return id, nil
}
