package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/infrastructure/cache"
	"github.com/francolucas/habit-tracker/internal/infrastructure/persistence/postgres/connection"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Timestamp time.Time `json:"timestamp" example:"2025-04-17T02:00:00Z"`
}

// SetupHealthRoutes registers health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, redis *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	// Readiness fails while any backing service is unreachable.
	router.GET("/health/ready", func(c *gin.Context) {
		status := "ready"
		code := http.StatusOK

		if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "database unavailable"
			code = http.StatusServiceUnavailable
		} else if !redis.IsHealthy() {
			status = "cache unavailable"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
		})
	})
}
