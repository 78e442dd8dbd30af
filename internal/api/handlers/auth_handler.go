package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/dto"
	"github.com/francolucas/habit-tracker/pkg/security/auth"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service auth.Service
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register creates an account and signs the user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, token, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, auth.ErrAccountExists):
			statusCode = http.StatusConflict
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.AuthResponse{
		UserID:      identity.UserID.String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Token:       token,
	}})
}

// Login exchanges credentials for a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, token, err := h.service.Login(
		c.Request.Context(),
		req.Email,
		req.Password,
		c.GetHeader("User-Agent"),
		c.ClientIP(),
	)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, auth.ErrInvalidCredentials) {
			statusCode = http.StatusUnauthorized
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.AuthResponse{
		UserID:      identity.UserID.String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Token:       token,
	}})
}

// Logout invalidates the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current signed-in identity.
func (h *AuthHandler) Me(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
		return
	}

	identity, err := h.service.Current(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": IdentityToResponse(identity)})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return header[len("Bearer "):]
}
