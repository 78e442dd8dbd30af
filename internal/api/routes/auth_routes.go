package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/handlers"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
	"github.com/francolucas/habit-tracker/pkg/security/auth"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
	limiter auth.RateLimiter
}

func NewAuthRoutes(handler *handlers.AuthHandler, limiter auth.RateLimiter) *AuthRoutes {
	return &AuthRoutes{
		handler: handler,
		limiter: limiter,
	}
}

// RegisterRoutes registers authentication routes. Credential endpoints sit
// behind a tighter rate limit than the rest of the API.
func (h *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/api/auth")

	credentialLimiter := h.limiter.WithLimit(10, time.Minute)
	authGroup.POST("/register", middleware.RateLimitMiddleware(credentialLimiter), h.handler.Register)
	authGroup.POST("/login", middleware.RateLimitMiddleware(credentialLimiter), h.handler.Login)

	authGroup.POST("/logout", h.handler.Logout)
	authGroup.GET("/me", h.handler.Me)
}
