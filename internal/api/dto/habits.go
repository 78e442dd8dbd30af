package dto

import "time"

// CreateHabitRequest is the payload for adding a habit to the catalog.
type CreateHabitRequest struct {
	Label       string   `json:"label" binding:"required"`
	Category    string   `json:"category"`
	Type        string   `json:"type" binding:"required,oneof=boolean enum multiEnum number"`
	EnumOptions []string `json:"enumOptions"`
	Unit        string   `json:"unit"`
	Color       string   `json:"color"`
}

// UpdateHabitRequest edits a habit. The id and type are immutable and have
// no place here; pointer fields distinguish "leave alone" from "set".
type UpdateHabitRequest struct {
	Label       *string  `json:"label"`
	Active      *bool    `json:"active"`
	Category    *string  `json:"category"`
	EnumOptions []string `json:"enumOptions"`
	Unit        *string  `json:"unit"`
	Color       *string  `json:"color"`
}

// HabitResponse is the catalog entry as returned by the API.
type HabitResponse struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Active      bool      `json:"active"`
	Category    string    `json:"category,omitempty"`
	Type        string    `json:"type"`
	EnumOptions []string  `json:"enumOptions,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Order       *int      `json:"order,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HabitListResponse wraps the sorted catalog.
type HabitListResponse struct {
	Habits     []HabitResponse `json:"habits"`
	TotalCount int             `json:"totalCount"`
}
