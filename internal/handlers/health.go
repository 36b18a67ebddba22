// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pantry-be/internal/core/ports"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// QueueInspector is the part of *asynq.Inspector the health check reads.
type QueueInspector interface {
	Queues() ([]string, error)
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

var _ QueueInspector = (*asynq.Inspector)(nil)

// check tests one backend. ping is the cheap readiness variant, details
// feeds the full /health report.
type check struct {
	name    string
	ping    func(context.Context) error
	details func(context.Context) map[string]interface{}
}

// HealthHandler reports on the item store and the optional redis and task
// queue backends.
type HealthHandler struct {
	responder
	checks      []check
	version     string
	environment string
	startTime   time.Time
}

// NewHealthHandler creates a new health handler. redisClient and inspector
// may be nil when those backends are not configured.
func NewHealthHandler(
	store ports.Database,
	redisClient *redis.Client,
	inspector QueueInspector,
	version, environment string,
	logger *slog.Logger,
) *HealthHandler {
	h := &HealthHandler{
		responder:   responder{logger: logger.With(slog.String("handler", "health"))},
		version:     version,
		environment: environment,
		startTime:   time.Now(),
	}

	h.checks = append(h.checks, check{
		name: "store",
		ping: store.Ping,
		details: func(ctx context.Context) map[string]interface{} {
			out := make(map[string]interface{})
			for k, v := range store.Health(ctx) {
				out[k] = v
			}
			return out
		},
	})

	if redisClient != nil {
		h.checks = append(h.checks, check{
			name: "redis",
			ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			details: func(context.Context) map[string]interface{} {
				stats := redisClient.PoolStats()
				return map[string]interface{}{
					"total_conns": stats.TotalConns,
					"idle_conns":  stats.IdleConns,
				}
			},
		})
	}

	if inspector != nil {
		h.checks = append(h.checks, check{
			name: "asynq",
			ping: func(context.Context) error {
				_, err := inspector.Queues()
				return err
			},
			details: func(context.Context) map[string]interface{} {
				return queueDetails(inspector)
			},
		})
	}

	return h
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	Goroutines  int                    `json:"goroutines"`
}

// ServiceInfo is the status of one backend.
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := HealthStatus{
		Status:      statusHealthy,
		Version:     h.version,
		Environment: h.environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo, len(h.checks)),
		Goroutines:  runtime.NumGoroutine(),
	}

	for _, p := range h.checks {
		info := h.run(ctx, p)
		report.Services[p.name] = info
		if info.Status != statusHealthy {
			report.Status = statusDegraded
		}
	}

	code := http.StatusOK
	if report.Status != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	noCache(w)
	h.respondJSON(w, code, report)
}

// Liveness handles GET /health/live. It never touches a backend.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	noCache(w)
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. Only the store and redis gate
// readiness; a stalled task queue does not stop the API serving.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string)
	for _, p := range h.checks {
		if p.name == "asynq" {
			continue
		}
		if err := p.ping(ctx); err != nil {
			ready = false
			details[p.name] = "not ready"
			continue
		}
		details[p.name] = "ready"
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	noCache(w)
	h.respondJSON(w, code, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) run(ctx context.Context, p check) ServiceInfo {
	start := time.Now()
	if err := p.ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", slog.String("check", p.name), "err", err)
		return ServiceInfo{Status: statusUnhealthy, Message: p.name + " unreachable"}
	}
	return ServiceInfo{
		Status:       statusHealthy,
		Details:      p.details(ctx),
		ResponseTime: time.Since(start).String(),
	}
}

func queueDetails(inspector QueueInspector) map[string]interface{} {
	queues, err := inspector.Queues()
	if err != nil {
		return nil
	}
	out := make(map[string]interface{}, len(queues))
	for _, q := range queues {
		info, err := inspector.GetQueueInfo(q)
		if err != nil {
			continue
		}
		out[q] = map[string]int{
			"pending": info.Pending,
			"active":  info.Active,
			"retry":   info.Retry,
		}
	}
	return map[string]interface{}{"queues": out}
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
}
