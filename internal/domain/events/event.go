package events

import (
	"time"

	"github.com/google/uuid"
)

// Change is published to Redis after every document write so that live
// watches on other connections can refresh their snapshots.
type Change struct {
	ID         uuid.UUID `json:"id"`
	Collection string    `json:"collection"`
	DocID      string    `json:"doc_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChange builds a change event for a written document.
func NewChange(collection, docID string) *Change {
	return &Change{
		ID:         uuid.New(),
		Collection: collection,
		DocID:      docID,
		Timestamp:  time.Now().UTC(),
	}
}
