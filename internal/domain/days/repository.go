package days

import (
	"context"
	"time"

	"github.com/francolucas/habit-tracker/internal/store"
)

// Repository defines persistence for day records over the document store.
type Repository interface {
	Get(ctx context.Context, date string) (*Record, error)
	Apply(ctx context.Context, date string, merge store.Merge) error
	Watch(ctx context.Context, date string, onSnapshot func(*Record), onError func(*store.Error)) error
}

type repository struct {
	docs store.DocStore
}

func NewRepository(docs store.DocStore) Repository {
	return &repository{docs: docs}
}

// Get always returns a record; Exists reports whether the document is
// actually present in the store.
func (r *repository) Get(ctx context.Context, date string) (*Record, error) {
	snap, err := r.docs.Get(ctx, Collection, date)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(date, snap), nil
}

func (r *repository) Apply(ctx context.Context, date string, merge store.Merge) error {
	return r.docs.Apply(ctx, Collection, date, merge)
}

func (r *repository) Watch(ctx context.Context, date string, onSnapshot func(*Record), onError func(*store.Error)) error {
	return r.docs.WatchDocument(ctx, Collection, date, func(snap store.Snapshot) {
		onSnapshot(fromSnapshot(date, snap))
	}, func(err *store.Error) {
		onError(err)
	})
}

func fromSnapshot(date string, snap store.Snapshot) *Record {
	rec := &Record{
		Date:   date,
		Values: map[string]interface{}{},
		Exists: snap.Exists,
	}
	if !snap.Exists {
		return rec
	}

	if s, ok := snap.Fields["date"].(string); ok {
		rec.Date = s
	}
	if s, ok := snap.Fields["note"].(string); ok {
		rec.Note = s
	}
	if values, ok := snap.Fields["v"].(map[string]interface{}); ok {
		for id, raw := range values {
			if items, ok := raw.([]interface{}); ok {
				rec.Values[id] = toStringSlice(items)
				continue
			}
			rec.Values[id] = raw
		}
	}

	if s, ok := snap.Fields["createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			rec.CreatedAt = t
		}
	}
	if s, ok := snap.Fields["updatedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			rec.UpdatedAt = t
		}
	}

	return rec
}
