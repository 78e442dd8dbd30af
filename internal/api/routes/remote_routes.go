package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/handlers"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
)

type RemoteRoutes struct {
	handler   *handlers.RemoteHandler
	jwtSecret string
}

func NewRemoteRoutes(handler *handlers.RemoteHandler, jwtSecret string) *RemoteRoutes {
	return &RemoteRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers remote-profile routes
func (h *RemoteRoutes) RegisterRoutes(router *gin.Engine) {
	remote := router.Group("/api/remote-profile")
	remote.Use(middleware.NewAuthMiddleware(h.jwtSecret))

	remote.GET("", h.handler.GetProfile)
	remote.PUT("", h.handler.SaveProfile)
	remote.DELETE("", h.handler.ClearProfile)
}
