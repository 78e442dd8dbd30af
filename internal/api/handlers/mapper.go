package handlers

import (
	"time"

	"github.com/francolucas/habit-tracker/internal/api/dto"
	"github.com/francolucas/habit-tracker/internal/domain/days"
	"github.com/francolucas/habit-tracker/internal/domain/habits"
	"github.com/francolucas/habit-tracker/pkg/security/auth"
)

// HabitToResponse converts a catalog definition to its API representation.
func HabitToResponse(def *habits.Definition) *dto.HabitResponse {
	return &dto.HabitResponse{
		ID:          def.ID,
		Label:       def.Label,
		Active:      def.Active,
		Category:    def.Category,
		Type:        string(def.Type),
		EnumOptions: def.EnumOptions,
		Unit:        def.Unit,
		Order:       def.Order,
		Color:       def.DisplayColor(),
		CreatedAt:   def.CreatedAt,
		UpdatedAt:   def.UpdatedAt,
	}
}

// DayToResponse converts a day record to its API representation.
func DayToResponse(rec *days.Record) *dto.DayResponse {
	resp := &dto.DayResponse{
		Date:   rec.Date,
		Note:   rec.Note,
		Values: rec.Values,
		Exists: rec.Exists,
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = timePtr(rec.CreatedAt)
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = timePtr(rec.UpdatedAt)
	}
	return resp
}

// SummaryToResponse converts a day summary to its API representation.
func SummaryToResponse(summary *days.Summary) *dto.DaySummaryResponse {
	return &dto.DaySummaryResponse{
		Record:    *DayToResponse(summary.Record),
		Completed: summary.Completed,
		Rate:      summary.Rate,
	}
}

// IdentityToResponse converts the signed-in identity to its API representation.
func IdentityToResponse(identity *auth.Identity) *dto.IdentityResponse {
	return &dto.IdentityResponse{
		UserID:      identity.UserID.String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	}
}

func timePtr(t time.Time) *time.Time { return &t }
