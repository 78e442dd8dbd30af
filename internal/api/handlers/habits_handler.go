package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/dto"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
	"github.com/francolucas/habit-tracker/internal/domain/habits"
)

// HabitsHandler handles HTTP requests for the habit catalog
type HabitsHandler struct {
	service habits.Service
}

// NewHabitsHandler creates a new HabitsHandler instance
func NewHabitsHandler(service habits.Service) *HabitsHandler {
	return &HabitsHandler{service: service}
}

// CreateHabit adds a habit to the catalog. The id is derived from the label
// server-side; a label with no usable characters is rejected.
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.CreateInput{
		Label:       req.Label,
		Category:    req.Category,
		Type:        habits.Type(req.Type),
		EnumOptions: req.EnumOptions,
		Unit:        req.Unit,
		Color:       req.Color,
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, habits.ErrHabitExists):
			statusCode = http.StatusConflict
		case errors.Is(err, habits.ErrInvalidInput), errors.Is(err, habits.ErrEmptyIdentifier):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	middleware.CountDocWrite(habits.Collection)
	c.JSON(http.StatusCreated, gin.H{"data": HabitToResponse(created)})
}

// GetHabit returns one catalog entry by id.
func (h *HabitsHandler) GetHabit(c *gin.Context) {
	id := c.Param("id")

	def, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, habits.ErrHabitNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(def)})
}

// ListHabits returns the full catalog in display order.
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	defs, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HabitResponse, len(defs))
	for i, def := range defs {
		responses[i] = *HabitToResponse(&def)
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitListResponse{
		Habits:     responses,
		TotalCount: len(responses),
	}})
}

// UpdateHabit edits the mutable fields of a catalog entry.
func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.UpdateInput{
		Label:       req.Label,
		Active:      req.Active,
		Category:    req.Category,
		EnumOptions: req.EnumOptions,
		Unit:        req.Unit,
		Color:       req.Color,
	}

	updated, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, habits.ErrHabitNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, habits.ErrInvalidInput):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	middleware.CountDocWrite(habits.Collection)
	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(updated)})
}
