package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/payment-assist/internal/pipeline"
)

// HealthStatus represents the overall health of the system.
type HealthStatus struct {
	Status  string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "degraded"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

const healthVersion = "1.0.0"

// HealthChecker reports the load state of the record store, the classifier
// artifacts, and the optional redis cache. A degraded start (empty store,
// missing artifacts) is visible here while the process stays alive.
type HealthChecker struct {
	pipeline    *pipeline.Pipeline
	redisClient *redis.Client
	skewErr     error
	startTime   time.Time
}

// NewHealthChecker creates a HealthChecker. redisClient may be nil; skewErr
// carries the startup artifact self-check result.
func NewHealthChecker(p *pipeline.Pipeline, redisClient *redis.Client, skewErr error) *HealthChecker {
	return &HealthChecker{
		pipeline:    p,
		redisClient: redisClient,
		skewErr:     skewErr,
		startTime:   time.Now(),
	}
}

// HandleHealth returns the health status of all components.
// Always returns 200; the status field in the body conveys health. Use
// /health/ready for probes that need HTTP 503 on failure.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	status := HealthStatus{
		Status:  determineOverallStatus(checks),
		Version: healthVersion,
		Uptime:  formatUptime(time.Since(hc.startTime)),
		Checks:  checks,
	}
	respondJSON(w, http.StatusOK, status)
}

// HandleLiveness is a simple liveness probe - always returns 200 if the
// server process is running.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": formatUptime(time.Since(hc.startTime)),
	})
}

// HandleReadiness returns 200 only when the service can classify: artifacts
// loaded and records available.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	overall := determineOverallStatus(checks)

	ready := overall != "unhealthy"
	httpStatus := http.StatusOK
	if !ready {
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, map[string]interface{}{
		"ready":  ready,
		"status": overall,
		"checks": checks,
	})
}

func (hc *HealthChecker) runAllChecks(ctx context.Context) map[string]ComponentCheck {
	checks := make(map[string]ComponentCheck, 3)
	checks["records"] = hc.checkRecords()
	checks["classifier"] = hc.checkClassifier()
	checks["redis"] = hc.checkRedis(ctx)
	return checks
}

// checkRecords reports the loaded customer table. An empty store means the
// source failed to load: lookups all answer NotFound, so this is degraded,
// not fatal.
func (hc *HealthChecker) checkRecords() ComponentCheck {
	store := hc.pipeline.Store()
	if store.Len() == 0 {
		return ComponentCheck{
			Status:  "degraded",
			Message: fmt.Sprintf("no records loaded from %s", store.Source()),
		}
	}
	return ComponentCheck{
		Status:  "up",
		Message: fmt.Sprintf("%d records from %s", store.Len(), store.Source()),
	}
}

// checkClassifier reports artifact load state and any model/codec skew found
// by the startup self-check.
func (hc *HealthChecker) checkClassifier() ComponentCheck {
	if !hc.pipeline.Ready() {
		return ComponentCheck{Status: "down", Message: "model or label codec failed to load"}
	}
	if hc.skewErr != nil {
		return ComponentCheck{
			Status:  "degraded",
			Message: fmt.Sprintf("artifact skew: %v", hc.skewErr),
		}
	}
	return ComponentCheck{Status: "up", Message: "artifacts loaded"}
}

// checkRedis pings the cache with a 2-second timeout.
func (hc *HealthChecker) checkRedis(ctx context.Context) ComponentCheck {
	if hc.redisClient == nil {
		return ComponentCheck{Status: "down", Message: "not configured"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := hc.redisClient.Ping(pingCtx).Err()
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: "connected"}
}

// determineOverallStatus derives the aggregate status from individual checks.
//
// Rules:
//   - "unhealthy" if the classifier is down (requests cannot be served)
//   - "degraded"  if any check is degraded or a non-critical check is down
//   - "healthy"   otherwise
func determineOverallStatus(checks map[string]ComponentCheck) string {
	if c, ok := checks["classifier"]; ok && c.Status == "down" {
		return "unhealthy"
	}
	for _, c := range checks {
		if c.Status == "degraded" {
			return "degraded"
		}
		if c.Status == "down" && c.Message != "not configured" {
			return "degraded"
		}
	}
	return "healthy"
}

// formatUptime produces a human-readable uptime string like "3d 4h 12m 5s".
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
