package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const (
	statusUp   = "up"
	statusDown = "down"

	checkTimeout = 2 * time.Second
)

// CheckFunc probes one dependency. A nil return means the dependency is
// reachable.
type CheckFunc func(ctx context.Context) error

type namedCheck struct {
	name string
	fn   CheckFunc
}

type componentCheck struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type healthReport struct {
	Status    string           `json:"status"`
	CheckedAt time.Time        `json:"checked_at"`
	Checks    []componentCheck `json:"checks"`
}

// HealthHandler serves liveness and readiness. Readiness runs the registered
// dependency checks; any failing check turns the whole report down.
type HealthHandler struct {
	checks []namedCheck
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	h := &HealthHandler{}
	h.AddCheck("database", db.PingContext)
	return h
}

func (h *HealthHandler) AddCheck(name string, fn CheckFunc) {
	h.checks = append(h.checks, namedCheck{name: name, fn: fn})
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	report := healthReport{
		Status:    statusUp,
		CheckedAt: time.Now(),
		Checks:    make([]componentCheck, 0, len(h.checks)),
	}

	for _, check := range h.checks {
		report.Checks = append(report.Checks, h.runCheck(r.Context(), check))
	}
	for _, c := range report.Checks {
		if c.Status == statusDown {
			report.Status = statusDown
			break
		}
	}

	statusCode := http.StatusOK
	if report.Status == statusDown {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, report)
}

func (h *HealthHandler) runCheck(ctx context.Context, check namedCheck) componentCheck {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := check.fn(ctx)

	result := componentCheck{
		Name:      check.name,
		Status:    statusUp,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Status = statusDown
		result.Error = err.Error()
	}
	return result
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
