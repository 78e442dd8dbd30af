package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/handlers"
)

type StreamRoutes struct {
	handler *handlers.StreamHandler
}

func NewStreamRoutes(handler *handlers.StreamHandler) *StreamRoutes {
	return &StreamRoutes{handler: handler}
}

// RegisterRoutes registers websocket streaming routes. Browsers cannot set
// an Authorization header on websocket dials, so the token is checked by
// the handler via query string instead of the shared auth middleware.
func (h *StreamRoutes) RegisterRoutes(router *gin.Engine) {
	stream := router.Group("/api/stream")

	stream.GET("/catalog", h.handler.StreamCatalog)
	stream.GET("/days/:date", h.handler.StreamDay)
}
