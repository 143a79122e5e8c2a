package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version string
	checks  map[string]HealthCheck
}

// NewHealthHandler constructs a HealthHandler over named dependency checks.
func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// Register mounts the probe routes at the engine root.
func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": common.HealthUp, "version": h.version})
}

// Readiness probes every dependency; any failure turns the probe red.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := common.HealthUp
	components := make([]common.ComponentHealth, 0, len(h.checks))
	for name, check := range h.checks {
		start := time.Now()
		ch := common.ComponentHealth{Name: name, Status: common.HealthUp}
		if err := check(ctx); err != nil {
			ch.Status = common.HealthDown
			ch.Message = err.Error()
			status = common.HealthDown
		}
		ch.Latency = time.Since(start)
		components = append(components, ch)
	}

	code := http.StatusOK
	if status != common.HealthUp {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "components": components})
}
