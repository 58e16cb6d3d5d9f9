package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stowage/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storage       port.ObjectStorage
	defaultBucket string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storage port.ObjectStorage, defaultBucket string) *HealthHandler {
	return &HealthHandler{storage: storage, defaultBucket: defaultBucket}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	if h.defaultBucket != "" {
		ok, err := h.storage.BucketExists(ctx, h.defaultBucket)
		if err != nil || !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "default bucket not reachable"})
			return
		}
	} else if _, err := h.storage.ListBuckets(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "object storage not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.storage.Name()})
}
