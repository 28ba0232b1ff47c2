package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeHealthChecker struct {
	err error
}

func (c *fakeHealthChecker) Check(context.Context) error {
	return c.err
}

func TestHealthEndpoint(t *testing.T) {
	ctrl := NewHealthController(&fakeHealthChecker{})

	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest("GET", "/health", nil), rec)

	if err := ctrl.Health(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDeepHealthEndpointOK(t *testing.T) {
	ctrl := NewHealthController(&fakeHealthChecker{})

	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest("GET", "/health/deep", nil), rec)

	if err := ctrl.DeepHealth(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDeepHealthEndpointDatabaseDown(t *testing.T) {
	ctrl := NewHealthController(&fakeHealthChecker{err: errors.New("connection refused")})

	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest("GET", "/health/deep", nil), rec)

	if err := ctrl.DeepHealth(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
