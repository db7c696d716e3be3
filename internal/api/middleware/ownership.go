package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/api/metrics"
	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// PatientOwnership guards every route scoped under a specific patient. Admins
// pass unconditionally; a user-role requester must own the patient addressed
// by the patientId path parameter. The ownership binding is re-read from the
// store on every request, so a changed binding takes effect immediately.
// Granted access is recorded to the audit sink when one is configured.
func PatientOwnership(users ports.UserDirectory, audit ports.AuditSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			// non-numeric path segment is "no match", never a crash
			patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)

			if claims.IsAdmin() {
				if err == nil {
					recordAccess(audit, claims.Username, patientID)
				}
				return next(c)
			}

			if err != nil {
				metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "you can only access your own records")
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
					return echo.NewHTTPError(http.StatusForbidden, "you can only access your own records")
				}
				return err
			}

			if user.PatientID == nil || *user.PatientID != patientID {
				metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "you can only access your own records")
			}

			recordAccess(audit, claims.Username, patientID)
			return next(c)
		}
	}
}

func recordAccess(audit ports.AuditSink, actor string, patientID int64) {
	if audit == nil {
		return
	}
	audit.Enqueue(ports.AuditEvent{
		Actor:     actor,
		Action:    "record_access",
		PatientID: patientID,
		Occurred:  time.Now().UTC(),
	})
}
