package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports whether the API and its database are reachable.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} Response "Service is healthy"
// @Failure     503 {object} ErrorResponse "Database unreachable"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339), "database": "ok"}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Data:    status,
			Message: "Database unreachable",
			Error:   "STORAGE_ERROR",
		})
		return
	}

	respondOK(c, http.StatusOK, status, "OK")
}
