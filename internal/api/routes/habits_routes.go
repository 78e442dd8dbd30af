package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/handlers"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
)

type HabitsRoutes struct {
	handler   *handlers.HabitsHandler
	jwtSecret string
}

func NewHabitsRoutes(handler *handlers.HabitsHandler, jwtSecret string) *HabitsRoutes {
	return &HabitsRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all catalog routes. There is no delete route:
// the catalog is append-only and habits retire via active=false.
func (h *HabitsRoutes) RegisterRoutes(router *gin.Engine) {
	habits := router.Group("/api/habits")
	habits.Use(middleware.NewAuthMiddleware(h.jwtSecret))

	habits.GET("", gzip.Gzip(gzip.DefaultCompression), h.handler.ListHabits)
	habits.POST("", h.handler.CreateHabit)
	habits.GET("/:id", h.handler.GetHabit)
	habits.PUT("/:id", h.handler.UpdateHabit)
}
