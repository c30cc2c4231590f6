package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const dbPingTimeout = 2 * time.Second

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HealthDB handles GET /health/db.
func (h *Handler) HealthDB(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"db": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbPingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn(ctx, "database ping failed", "error", err)
		abortWithError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"db": "ok"})
}
