package dto

import (
	"encoding/json"
	"time"
)

// SetValueRequest carries a single habit value for a date. Value is decoded
// by the handler against the habit's declared type: bool for boolean, string
// for enum, string array for multiEnum, and number-or-text for number
// habits (text goes through the locale-aware parser). JSON null clears.
type SetValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// SaveNoteRequest replaces the day's free-text note.
type SaveNoteRequest struct {
	Note string `json:"note"`
}

// DayResponse is the day record as returned by the API.
type DayResponse struct {
	Date      string                 `json:"date"`
	Note      string                 `json:"note,omitempty"`
	Values    map[string]interface{} `json:"values"`
	Exists    bool                   `json:"exists"`
	CreatedAt *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
}

// DaySummaryResponse joins a day record with per-habit completion flags and
// the aggregate completion rate over active habits.
type DaySummaryResponse struct {
	Record    DayResponse     `json:"record"`
	Completed map[string]bool `json:"completed"`
	Rate      int             `json:"rate"`
}
