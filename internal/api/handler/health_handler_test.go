package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks []DependencyCheck
		code   int
		body   string
	}{
		{name: "no dependencies", code: http.StatusOK, body: `"status":"ok"`},
		{
			name:   "healthy",
			checks: []DependencyCheck{{Name: "redis", Ping: func(context.Context) error { return nil }}},
			code:   http.StatusOK,
			body:   `"redis":{"status":"ok"}`,
		},
		{
			name: "degraded",
			checks: []DependencyCheck{
				{Name: "redis", Ping: func(context.Context) error { return nil }},
				{Name: "mongodb", Ping: func(context.Context) error { return errors.New("no reachable servers") }},
			},
			code: http.StatusServiceUnavailable,
			body: `"mongodb":{"status":"unhealthy","error":"no reachable servers"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tt.checks...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("body %s does not contain %s", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("unexpected liveness: %d, %v", rec.Code, err)
	}
}
