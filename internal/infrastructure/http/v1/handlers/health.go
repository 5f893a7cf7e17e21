package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks a storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	storage string
	pinger  Pinger
}

// NewHealthHandler creates a new health handler. A nil pinger reports the
// storage as always healthy (memory mode).
func NewHealthHandler(storage string, pinger Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, pinger: pinger}
}

// Live handles liveness probe.
// GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles readiness probe.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{h.storage: "unhealthy: " + err.Error()},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{h.storage: "healthy"},
	})
}
