package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/francolucas/habit-tracker/internal/api/dto"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
	"github.com/francolucas/habit-tracker/internal/domain/days"
	"github.com/francolucas/habit-tracker/internal/domain/habits"
)

// DaysHandler handles HTTP requests for day records
type DaysHandler struct {
	service days.Service
	catalog habits.Service
}

// NewDaysHandler creates a new DaysHandler instance
func NewDaysHandler(service days.Service, catalog habits.Service) *DaysHandler {
	return &DaysHandler{service: service, catalog: catalog}
}

// GetDay returns the record for a date. A never-written date comes back
// with exists=false and empty values rather than 404.
func (h *DaysHandler) GetDay(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		c.JSON(dayStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": DayToResponse(rec)})
}

// GetDaySummary returns the record joined with per-habit completion and
// the aggregate completion rate.
func (h *DaysHandler) GetDaySummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("date"))
	if err != nil {
		c.JSON(dayStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": SummaryToResponse(summary)})
}

// SetValue writes one habit value for a date. The payload is decoded
// against the habit's declared type; JSON null clears the value.
func (h *DaysHandler) SetValue(c *gin.Context) {
	date := c.Param("date")
	habitID := c.Param("habitId")

	var req dto.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	def, err := h.catalog.Get(c.Request.Context(), habitID)
	if err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.dispatchValue(c, date, def, req.Value)
	if err != nil {
		c.JSON(dayStatus(err), gin.H{"error": err.Error()})
		return
	}

	middleware.CountDocWrite(days.Collection)
	c.JSON(http.StatusOK, gin.H{"data": DayToResponse(rec)})
}

// ToggleValue flips a boolean habit for a date; an untracked habit toggles
// to done.
func (h *DaysHandler) ToggleValue(c *gin.Context) {
	rec, err := h.service.Toggle(c.Request.Context(), c.Param("date"), c.Param("habitId"))
	if err != nil {
		c.JSON(dayStatus(err), gin.H{"error": err.Error()})
		return
	}
	middleware.CountDocWrite(days.Collection)
	c.JSON(http.StatusOK, gin.H{"data": DayToResponse(rec)})
}

// SaveNote replaces the free-text note for a date.
func (h *DaysHandler) SaveNote(c *gin.Context) {
	var req dto.SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.service.SaveNote(c.Request.Context(), c.Param("date"), req.Note)
	if err != nil {
		c.JSON(dayStatus(err), gin.H{"error": err.Error()})
		return
	}
	middleware.CountDocWrite(days.Collection)
	c.JSON(http.StatusOK, gin.H{"data": DayToResponse(rec)})
}

func (h *DaysHandler) dispatchValue(c *gin.Context, date string, def *habits.Definition, raw json.RawMessage) (*days.Record, error) {
	ctx := c.Request.Context()
	isNull := len(raw) == 0 || string(raw) == "null"

	switch def.Type {
	case habits.TypeBoolean:
		var done bool
		if isNull || json.Unmarshal(raw, &done) != nil {
			return nil, days.ErrTypeMismatch
		}
		return h.service.SetBoolean(ctx, date, def.ID, done)

	case habits.TypeEnum:
		if isNull {
			return h.service.SetEnum(ctx, date, def.ID, "")
		}
		var option string
		if json.Unmarshal(raw, &option) != nil {
			return nil, days.ErrTypeMismatch
		}
		return h.service.SetEnum(ctx, date, def.ID, option)

	case habits.TypeMultiEnum:
		if isNull {
			return h.service.SetMulti(ctx, date, def.ID, nil)
		}
		var options []string
		if json.Unmarshal(raw, &options) != nil {
			return nil, days.ErrTypeMismatch
		}
		return h.service.SetMulti(ctx, date, def.ID, options)

	case habits.TypeNumber:
		if isNull {
			return h.service.SetNumber(ctx, date, def.ID, nil)
		}
		var value float64
		if json.Unmarshal(raw, &value) == nil {
			return h.service.SetNumber(ctx, date, def.ID, &value)
		}
		// Free-form text goes through the locale-aware parser.
		var text string
		if json.Unmarshal(raw, &text) != nil {
			return nil, days.ErrTypeMismatch
		}
		return h.service.SetNumberText(ctx, date, def.ID, text)
	}

	return nil, days.ErrTypeMismatch
}

func dayStatus(err error) int {
	switch {
	case errors.Is(err, days.ErrInvalidDate),
		errors.Is(err, days.ErrTypeMismatch),
		errors.Is(err, days.ErrInactiveHabit),
		errors.Is(err, days.ErrNotANumber):
		return http.StatusBadRequest
	case errors.Is(err, days.ErrUnknownHabit):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
