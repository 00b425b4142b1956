package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/internal/services/queue"
	"go.uber.org/zap"
)

type StorageHealth interface {
	HealthCheck(ctx context.Context) map[string]string
}

type EventQueue interface {
	HealthCheck() string
	EventStats() (map[string]interface{}, error)
}

type HealthHandler struct {
	storage StorageHealth
	queue   EventQueue
	logger  *zap.Logger
}

func NewHealthHandler(storage StorageHealth, queue EventQueue, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

// HealthCheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck(c.Request.Context())
	services["rabbitmq"] = h.queue.HealthCheck()
	overall := calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *HealthHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now(),
	}

	events, err := h.queue.EventStats()
	switch {
	case errors.Is(err, queue.ErrNotConfigured):
		stats["events"] = "not configured"
	case err != nil:
		h.logger.Error("Failed to get event stats", zap.Error(err))
		stats["events"] = "unavailable"
	default:
		stats["events"] = events
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}

func calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
