// Package health отдаёт liveness/readiness-пробы и сводный отчёт /healthz
// по зарегистрированным проверкам компонентов.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// DefaultCheckTimeout — общий бюджет на прогон всех проверок.
const DefaultCheckTimeout = 2 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check — результат проверки одного компонента.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — тело ответа /healthz.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	Commit        string           `json:"commit,omitempty"`
	BuildDate     string           `json:"build_date,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// Checker проверяет один компонент.
type Checker interface {
	Check(ctx context.Context) Check
}

// Handler хранит набор проверок и отдаёт их результат по HTTP.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker

	version   string
	commit    string
	buildDate string
	startedAt time.Time
	timeout   time.Duration
}

func NewHandler(version string) *Handler {
	return &Handler{
		checkers:  make(map[string]Checker),
		version:   version,
		startedAt: time.Now(),
		timeout:   DefaultCheckTimeout,
	}
}

// WithBuild дополняет отчёт коммитом и датой сборки.
func (h *Handler) WithBuild(commit, buildDate string) *Handler {
	h.commit = commit
	h.buildDate = buildDate
	return h
}

// RegisterChecker добавляет или заменяет проверку с именем name.
func (h *Handler) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	h.checkers[name] = checker
	h.mu.Unlock()
}

// Run параллельно выполняет все проверки в пределах h.timeout.
// Итоговый статус unhealthy, если unhealthy хотя бы одна проверка.
func (h *Handler) Run(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	snapshot := make(map[string]Checker, len(h.checkers))
	for name, checker := range h.checkers {
		snapshot[name] = checker
	}
	h.mu.RUnlock()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		checks = make(map[string]Check, len(snapshot))
	)
	for name, checker := range snapshot {
		name, checker := name, checker
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := checker.Check(ctx)
			mu.Lock()
			checks[name] = check
			mu.Unlock()
		}()
	}
	wg.Wait()

	overall := StatusHealthy
	for _, check := range checks {
		if check.Status != StatusHealthy {
			overall = StatusUnhealthy
			break
		}
	}

	return Response{
		Status:        overall,
		Timestamp:     time.Now().UTC(),
		Checks:        checks,
		Version:       h.version,
		Commit:        h.commit,
		BuildDate:     h.buildDate,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
}

// ServeHTTP отдаёт полный отчёт: 200 или 503.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := h.Run(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(response.Status))
	_ = json.NewEncoder(w).Encode(response)
}

// ReadinessHandler — короткий вариант /healthz для балансировщика.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	status := h.Run(r.Context()).Status
	w.WriteHeader(httpStatus(status))
	if status == StatusHealthy {
		_, _ = w.Write([]byte("ready"))
		return
	}
	_, _ = w.Write([]byte("not ready"))
}

func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func httpStatus(status Status) int {
	if status == StatusHealthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// SimpleChecker превращает функцию func(ctx) error в Checker.
type SimpleChecker struct {
	name    string
	checkFn func(context.Context) error
}

func NewSimpleChecker(name string, checkFn func(context.Context) error) *SimpleChecker {
	return &SimpleChecker{name: name, checkFn: checkFn}
}

// NewPingChecker проверяет хранилище через Ping; nil pinger всегда unhealthy.
func NewPingChecker(name string, pinger domain.Pinger) *SimpleChecker {
	return NewSimpleChecker(name, func(ctx context.Context) error {
		if pinger == nil {
			return errors.New("pinger is not configured")
		}
		return pinger.Ping(ctx)
	})
}

func (c *SimpleChecker) Check(ctx context.Context) Check {
	start := time.Now()
	err := c.checkFn(ctx)

	check := Check{
		Name:       c.name,
		Status:     StatusHealthy,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}
