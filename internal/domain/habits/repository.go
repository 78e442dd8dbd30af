package habits

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/francolucas/habit-tracker/internal/store"
)

// Repository defines persistence for habit definitions over the document store.
type Repository interface {
	Get(ctx context.Context, id string) (*Definition, error)
	List(ctx context.Context) ([]Definition, error)
	Apply(ctx context.Context, id string, merge store.Merge) error
	Watch(ctx context.Context, onSnapshot func([]Definition), onError func(*store.Error)) error
}

type repository struct {
	docs store.DocStore
}

func NewRepository(docs store.DocStore) Repository {
	return &repository{docs: docs}
}

// Get returns nil without error when the definition does not exist.
func (r *repository) Get(ctx context.Context, id string) (*Definition, error) {
	snap, err := r.docs.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, nil
	}
	return fromSnapshot(snap), nil
}

func (r *repository) List(ctx context.Context) ([]Definition, error) {
	snaps, err := r.docs.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	defs := decodeAll(snaps)
	SortDefinitions(defs)
	return defs, nil
}

func (r *repository) Apply(ctx context.Context, id string, merge store.Merge) error {
	return r.docs.Apply(ctx, Collection, id, merge)
}

func (r *repository) Watch(ctx context.Context, onSnapshot func([]Definition), onError func(*store.Error)) error {
	return r.docs.WatchCollection(ctx, Collection, func(snaps []store.Snapshot) {
		defs := decodeAll(snaps)
		SortDefinitions(defs)
		onSnapshot(defs)
	}, func(err *store.Error) {
		onError(err)
	})
}

func decodeAll(snaps []store.Snapshot) []Definition {
	defs := make([]Definition, 0, len(snaps))
	for _, snap := range snaps {
		defs = append(defs, *fromSnapshot(snap))
	}
	return defs
}

// SortDefinitions orders by order ascending with missing order last, ties
// broken by case-insensitive label.
func SortDefinitions(defs []Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		oi, oj := defs[i].Order, defs[j].Order
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case oi == nil && oj != nil:
			return false
		case oi != nil && oj == nil:
			return true
		}
		return strings.ToLower(defs[i].Label) < strings.ToLower(defs[j].Label)
	})
}

func fromSnapshot(snap store.Snapshot) *Definition {
	def := &Definition{
		ID:       snap.ID,
		Label:    stringField(snap.Fields, "label"),
		Active:   boolField(snap.Fields, "active"),
		Category: stringField(snap.Fields, "category"),
		Type:     Type(stringField(snap.Fields, "type")),
		Unit:     stringField(snap.Fields, "unit"),
		Color:    stringField(snap.Fields, "color"),
	}

	if raw, ok := snap.Fields["enumOptions"].([]interface{}); ok {
		options := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				options = append(options, s)
			}
		}
		def.EnumOptions = options
	}

	if raw, ok := snap.Fields["order"]; ok {
		switch v := raw.(type) {
		case float64:
			order := int(v)
			def.Order = &order
		case int:
			order := v
			def.Order = &order
		}
	}

	def.CreatedAt = timeField(snap.Fields, "createdAt")
	def.UpdatedAt = timeField(snap.Fields, "updatedAt")

	return def
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]interface{}, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func timeField(fields map[string]interface{}, key string) time.Time {
	s, ok := fields[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
