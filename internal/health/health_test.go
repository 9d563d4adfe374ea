package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthyCheck(context.Context) error { return nil }

func failingCheck(context.Context) error { return errors.New("connection refused") }

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]func(context.Context) error
		wantCode   int
		wantStatus Status
	}{
		{name: "no checks", wantCode: http.StatusOK, wantStatus: StatusHealthy},
		{
			name:       "all healthy",
			checks:     map[string]func(context.Context) error{"storage": healthyCheck},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name: "one unhealthy",
			checks: map[string]func(context.Context) error{
				"storage": failingCheck,
				"kafka":   healthyCheck,
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler("v1.0.0").WithBuild("abc1234", "2026-05-01")
			for name, fn := range tt.checks {
				handler.RegisterChecker(name, NewSimpleChecker(name, fn))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}

			var response Response
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, response.Status)
			}
			if response.Version != "v1.0.0" {
				t.Errorf("expected version v1.0.0, got %s", response.Version)
			}
			if response.Commit != "abc1234" || response.BuildDate != "2026-05-01" {
				t.Errorf("unexpected build info: commit=%q date=%q", response.Commit, response.BuildDate)
			}
			if len(response.Checks) != len(tt.checks) {
				t.Errorf("expected %d checks, got %d", len(tt.checks), len(response.Checks))
			}
		})
	}
}

func TestHandler_ReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		check    func(context.Context) error
		wantCode int
		wantBody string
	}{
		{name: "ready", check: healthyCheck, wantCode: http.StatusOK, wantBody: "ready"},
		{name: "not ready", check: failingCheck, wantCode: http.StatusServiceUnavailable, wantBody: "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler("dev")
			handler.RegisterChecker("storage", NewSimpleChecker("storage", tt.check))

			w := httptest.NewRecorder()
			handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.wantCode || w.Body.String() != tt.wantBody {
				t.Fatalf("got %d %q, want %d %q", w.Code, w.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("unexpected liveness response %d %q", w.Code, w.Body.String())
	}
}

func TestPingChecker(t *testing.T) {
	healthy := NewPingChecker("storage", pingerFunc(func(context.Context) error { return nil })).Check(context.Background())
	if healthy.Status != StatusHealthy || healthy.Name != "storage" {
		t.Fatalf("unexpected check %+v", healthy)
	}

	failing := NewPingChecker("storage", pingerFunc(failingCheck)).Check(context.Background())
	if failing.Status != StatusUnhealthy || failing.Message != "connection refused" {
		t.Fatalf("unexpected check %+v", failing)
	}

	missing := NewPingChecker("storage", nil).Check(context.Background())
	if missing.Status != StatusUnhealthy {
		t.Fatalf("nil pinger must be unhealthy, got %+v", missing)
	}
}

func TestHandler_CheckTimeout(t *testing.T) {
	handler := NewHandler("dev")
	handler.timeout = 20 * time.Millisecond
	handler.RegisterChecker("slow", NewPingChecker("slow", pingerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))

	response := handler.Run(context.Background())
	if response.Status != StatusUnhealthy {
		t.Fatalf("expected slow check to time out, got %s", response.Status)
	}
	if response.Checks["slow"].Message != context.DeadlineExceeded.Error() {
		t.Fatalf("unexpected message %q", response.Checks["slow"].Message)
	}
}
