package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allowed bool
	err     error
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.allowed, l.err
}

func runRateLimit(t *testing.T, limiter *stubLimiter) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := RateLimit(limiter, "login", zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRateLimit_Allows(t *testing.T) {
	rec, called := runRateLimit(t, &stubLimiter{allowed: true})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got status %d", rec.Code)
	}
}

func TestRateLimit_Throttles(t *testing.T) {
	rec, called := runRateLimit(t, &stubLimiter{allowed: false})
	if called {
		t.Fatalf("next called despite limit")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rec, called := runRateLimit(t, &stubLimiter{err: errors.New("redis down")})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("limiter error must fail open, got status %d", rec.Code)
	}
}
