package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emergency-shield/backend/internal/integration/entrypoint/controller"
)

func healthOnly() *Router {
	up := func(context.Context) bool { return true }
	return NewRouter(controller.NewHealthController(up, nil), nil, nil, nil, nil, nil, nil, nil, nil)
}

func TestSetupWithoutCORSOrigins(t *testing.T) {
	var engine http.Handler
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Setup panicked with no CORS origins: %v", r)
			}
		}()
		engine = healthOnly().Setup(Config{Environment: "test", ServiceName: "router-test"})
	}()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want none", got)
	}
}

func TestSetupAllowsConfiguredOrigin(t *testing.T) {
	engine := healthOnly().Setup(Config{
		Environment:        "test",
		ServiceName:        "router-test",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}
	if rec.Code >= http.StatusBadRequest {
		t.Errorf("preflight status = %d", rec.Code)
	}
}
