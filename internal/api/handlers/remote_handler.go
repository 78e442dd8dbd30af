package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/pkg/config"
)

// RemoteHandler handles HTTP requests for the remote backend profile
type RemoteHandler struct {
	store *config.RemoteProfileStore
}

// NewRemoteHandler creates a new RemoteHandler instance
func NewRemoteHandler(store *config.RemoteProfileStore) *RemoteHandler {
	return &RemoteHandler{store: store}
}

// GetProfile returns the active remote profile. 404 when none is saved and
// no environment default exists.
func (h *RemoteHandler) GetProfile(c *gin.Context) {
	profile, err := h.store.Load()
	if err != nil {
		if errors.Is(err, config.ErrRemoteProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// SaveProfile validates and persists a pasted profile blob. The raw body is
// passed through the same parser the loader uses, so anything accepted here
// will load next start.
func (h *RemoteHandler) SaveProfile(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := config.ParseRemoteProfile(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Save(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// ClearProfile removes the saved profile; the environment default, if any,
// takes over on the next load.
func (h *RemoteHandler) ClearProfile(c *gin.Context) {
	if err := h.store.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
