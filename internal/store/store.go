// Package store defines the document-store boundary: snapshot reads, merge
// writes with explicit field clearing, and live watches over collections and
// single documents.
//
// Writes are last-write-wins at the store level. There is no conflict
// detection; the system assumes a single user per deployment, and concurrent
// edits to the same document simply overwrite each other field by field.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("store: document not found")

// Error is a store-level failure carrying a machine code alongside the
// human-readable message, surfaced per watched resource.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %s", e.Code, e.Message)
}

// Error codes
const (
	CodeUnavailable     = "unavailable"
	CodeInternal        = "internal"
	CodeInvalidArgument = "invalid-argument"
)

// FieldValue is one entry of a merge payload: either a value to set or an
// explicit clear. A field absent from the payload is left untouched, so
// "delete via absence" can never happen by accident.
type FieldValue struct {
	value   interface{}
	cleared bool
}

// Value returns a FieldValue that sets the field.
func Value(v interface{}) FieldValue {
	return FieldValue{value: v}
}

// Clear returns a FieldValue that removes the field from the document.
func Clear() FieldValue {
	return FieldValue{cleared: true}
}

// Cleared reports whether this entry removes the field.
func (f FieldValue) Cleared() bool { return f.cleared }

// Raw returns the value to set; nil for a cleared entry.
func (f FieldValue) Raw() interface{} { return f.value }

// Merge is a partial update keyed by dot-separated field path
// (e.g. "v.workoutIntensity"). Intermediate maps are created as needed.
type Merge map[string]FieldValue

// Snapshot is the read-side view of a single document.
type Snapshot struct {
	ID     string
	Fields map[string]interface{}
	Exists bool
}

// CollectionHandler receives an ordered snapshot of a whole collection:
// first the current state, then one call per change.
type CollectionHandler func(docs []Snapshot)

// DocumentHandler receives the current state of one document, then one call
// per change. Exists is false when the document has never been written.
type DocumentHandler func(doc Snapshot)

// ErrorHandler receives non-fatal subscription errors. The watch stays
// registered; the error is superseded by the next successful snapshot.
type ErrorHandler func(err *Error)

// DocStore is the document database handle.
type DocStore interface {
	// Get reads one document. A missing document is returned with
	// Exists=false and a nil error.
	Get(ctx context.Context, collection, id string) (Snapshot, error)

	// List returns all documents of a collection ordered by id.
	List(ctx context.Context, collection string) ([]Snapshot, error)

	// Apply merges the payload into the document, creating it if absent.
	Apply(ctx context.Context, collection, id string, merge Merge) error

	// WatchCollection registers a live subscription. The initial snapshot is
	// delivered before WatchCollection returns; the watch ends when ctx is
	// cancelled.
	WatchCollection(ctx context.Context, collection string, onSnapshot CollectionHandler, onError ErrorHandler) error

	// WatchDocument is WatchCollection for a single document.
	WatchDocument(ctx context.Context, collection, id string, onSnapshot DocumentHandler, onError ErrorHandler) error
}

// ApplyMerge applies a merge payload to a field map, returning the result.
// The input map is not modified. Paths navigate nested maps; clearing a path
// whose parents do not exist is a no-op.
func ApplyMerge(fields map[string]interface{}, merge Merge) map[string]interface{} {
	result := cloneFields(fields)

	for path, fv := range merge {
		parts := strings.Split(path, ".")
		applyPath(result, parts, fv)
	}

	return result
}

func applyPath(node map[string]interface{}, parts []string, fv FieldValue) {
	head := parts[0]

	if len(parts) == 1 {
		if fv.Cleared() {
			delete(node, head)
		} else {
			node[head] = fv.Raw()
		}
		return
	}

	child, ok := node[head].(map[string]interface{})
	if !ok {
		if fv.Cleared() {
			return
		}
		child = make(map[string]interface{})
		node[head] = child
	}
	applyPath(child, parts[1:], fv)
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if nested, ok := v.(map[string]interface{}); ok {
			result[k] = cloneFields(nested)
		} else {
			result[k] = v
		}
	}
	return result
}

// CloneSnapshot returns a deep copy so watchers cannot mutate shared state.
func CloneSnapshot(s Snapshot) Snapshot {
	return Snapshot{
		ID:     s.ID,
		Fields: cloneFields(s.Fields),
		Exists: s.Exists,
	}
}
