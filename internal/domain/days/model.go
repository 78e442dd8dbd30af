package days

import (
	"fmt"
	"time"
)

// Collection is the document collection holding day records, keyed by the
// yyyy-mm-dd date string.
const Collection = "days"

// Record is the per-date container of recorded values and a note. A habit
// id absent from Values means "not tracked"; keys never hold empty
// sentinels.
type Record struct {
	Date      string                 `json:"date"`
	Note      string                 `json:"note"`
	Values    map[string]interface{} `json:"v"`
	Exists    bool                   `json:"-"`
	CreatedAt time.Time              `json:"createdAt,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt,omitempty"`
}

// Key formats a date as the canonical yyyy-mm-dd document key using its
// local calendar fields.
func Key(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ValidKey reports whether s is a canonical zero-padded date key.
func ValidKey(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	return Key(t) == s
}
