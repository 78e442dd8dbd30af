package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/handlers"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
)

type DaysRoutes struct {
	handler   *handlers.DaysHandler
	jwtSecret string
}

func NewDaysRoutes(handler *handlers.DaysHandler, jwtSecret string) *DaysRoutes {
	return &DaysRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all day-record routes
func (h *DaysRoutes) RegisterRoutes(router *gin.Engine) {
	days := router.Group("/api/days")
	days.Use(middleware.NewAuthMiddleware(h.jwtSecret))

	days.GET("/:date", gzip.Gzip(gzip.DefaultCompression), h.handler.GetDay)
	days.GET("/:date/summary", gzip.Gzip(gzip.DefaultCompression), h.handler.GetDaySummary)
	days.PUT("/:date/values/:habitId", h.handler.SetValue)
	days.POST("/:date/values/:habitId/toggle", h.handler.ToggleValue)
	days.PUT("/:date/note", h.handler.SaveNote)
}
