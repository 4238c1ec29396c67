package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/remediarr/remediarr/internal/service"
)

type HealthHandler struct {
	health *service.HealthService
}

func NewHealthHandler(health *service.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Live answers as long as the process runs.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings the downstream collaborators and fails when any is
// unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	statuses, ready := h.health.Ready(c.Request.Context())

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": ready, "dependencies": statuses})
}
