package habits

import (
	"hash/fnv"
	"time"
)

// Collection is the document collection holding habit definitions, keyed by
// the camelCase identifier derived from the label at creation time.
const Collection = "habits"

// Type tags a habit definition. Immutable after creation.
type Type string

const (
	TypeBoolean   Type = "boolean"
	TypeEnum      Type = "enum"
	TypeMultiEnum Type = "multiEnum"
	TypeNumber    Type = "number"
)

// Valid reports whether t is a known habit type.
func (t Type) Valid() bool {
	switch t {
	case TypeBoolean, TypeEnum, TypeMultiEnum, TypeNumber:
		return true
	}
	return false
}

// Definition is a named, typed trackable item with display metadata.
// ID and Type never change after creation; everything else is editable.
type Definition struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Active      bool      `json:"active"`
	Category    string    `json:"category,omitempty"`
	Type        Type      `json:"type"`
	EnumOptions []string  `json:"enumOptions,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Order       *int      `json:"order,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DisplayColor returns the stored color, falling back to a deterministic
// palette pick derived from the id.
func (d *Definition) DisplayColor() string {
	if d.Color != "" {
		return d.Color
	}
	return DefaultColor(d.ID)
}

// palette holds the fallback colors for habits without an explicit one.
var palette = []string{
	"#4e79a7",
	"#f28e2b",
	"#e15759",
	"#76b7b2",
	"#59a14f",
	"#edc948",
	"#b07aa1",
	"#9c755f",
}

// DefaultColor maps an id onto the fixed palette. Stable across runs.
func DefaultColor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return palette[int(h.Sum32())%len(palette)]
}

// CreateInput represents the input for creating a new habit definition
type CreateInput struct {
	Label       string
	Category    string
	Type        Type
	EnumOptions []string
	Unit        string
	Color       string
}

// UpdateInput represents the input for editing a definition. The id and
// type have no counterpart here: they cannot be changed.
type UpdateInput struct {
	Label       *string
	Active      *bool
	Category    *string
	EnumOptions []string
	Unit        *string
	Color       *string
}
