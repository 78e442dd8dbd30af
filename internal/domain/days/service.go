package days

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/francolucas/habit-tracker/internal/domain/habits"
	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/logger"
)

var (
	ErrInvalidDate   = errors.New("invalid date key")
	ErrUnknownHabit  = errors.New("unknown habit")
	ErrInactiveHabit = errors.New("habit is inactive")
	ErrTypeMismatch  = errors.New("value does not match habit type")
)

// Summary is a day record joined with the catalog: per-habit completion and
// the aggregate rate over active habits.
type Summary struct {
	Record    *Record         `json:"record"`
	Completed map[string]bool `json:"completed"`
	Rate      int             `json:"rate"`
}

// Service exposes day-record reads and writes. Every setter merges a single
// habit key; untouched keys survive. Clearing a key on a record that does
// not exist is a no-op and creates nothing.
type Service interface {
	Get(ctx context.Context, date string) (*Record, error)
	SetBoolean(ctx context.Context, date, habitID string, done bool) (*Record, error)
	Toggle(ctx context.Context, date, habitID string) (*Record, error)
	SetEnum(ctx context.Context, date, habitID, option string) (*Record, error)
	SetMulti(ctx context.Context, date, habitID string, options []string) (*Record, error)
	SetNumber(ctx context.Context, date, habitID string, value *float64) (*Record, error)
	SetNumberText(ctx context.Context, date, habitID, text string) (*Record, error)
	SaveNote(ctx context.Context, date, note string) (*Record, error)
	Summary(ctx context.Context, date string) (*Summary, error)
	Watch(ctx context.Context, date string, onSnapshot func(*Record), onError func(*store.Error)) error
}

type service struct {
	repo    Repository
	catalog habits.Repository
	log     *logger.Logger
}

func NewService(repo Repository, catalog habits.Repository, log *logger.Logger) Service {
	return &service{repo: repo, catalog: catalog, log: log}
}

func (s *service) Get(ctx context.Context, date string) (*Record, error) {
	if !ValidKey(date) {
		return nil, ErrInvalidDate
	}
	return s.repo.Get(ctx, date)
}

// SetBoolean stores the flag as given. False is a recorded value, distinct
// from not tracked; only Toggle back or an explicit clear removes the key.
func (s *service) SetBoolean(ctx context.Context, date, habitID string, done bool) (*Record, error) {
	if _, err := s.lookupHabit(ctx, habitID, habits.TypeBoolean); err != nil {
		return nil, err
	}
	return s.applyValue(ctx, date, habitID, store.Value(done))
}

// Toggle flips the boolean habit for the date. An absent key toggles to
// true; a recorded value flips in place.
func (s *service) Toggle(ctx context.Context, date, habitID string) (*Record, error) {
	if _, err := s.lookupHabit(ctx, habitID, habits.TypeBoolean); err != nil {
		return nil, err
	}
	if !ValidKey(date) {
		return nil, ErrInvalidDate
	}

	rec, err := s.repo.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	current, _ := rec.Values[habitID].(bool)
	return s.applyValue(ctx, date, habitID, store.Value(!current))
}

// SetEnum records the selected option; the empty string clears the key.
func (s *service) SetEnum(ctx context.Context, date, habitID, option string) (*Record, error) {
	if _, err := s.lookupHabit(ctx, habitID, habits.TypeEnum); err != nil {
		return nil, err
	}
	if option == "" {
		return s.applyValue(ctx, date, habitID, store.Clear())
	}
	return s.applyValue(ctx, date, habitID, store.Value(option))
}

// SetMulti records the normalized selection; an empty result clears the key.
func (s *service) SetMulti(ctx context.Context, date, habitID string, options []string) (*Record, error) {
	if _, err := s.lookupHabit(ctx, habitID, habits.TypeMultiEnum); err != nil {
		return nil, err
	}
	normalized := NormalizeMultiEnum(options)
	if len(normalized) == 0 {
		return s.applyValue(ctx, date, habitID, store.Clear())
	}
	values := make([]interface{}, len(normalized))
	for i, v := range normalized {
		values[i] = v
	}
	return s.applyValue(ctx, date, habitID, store.Value(values))
}

// SetNumber records the measurement; nil clears the key.
func (s *service) SetNumber(ctx context.Context, date, habitID string, value *float64) (*Record, error) {
	if _, err := s.lookupHabit(ctx, habitID, habits.TypeNumber); err != nil {
		return nil, err
	}
	if value == nil {
		return s.applyValue(ctx, date, habitID, store.Clear())
	}
	return s.applyValue(ctx, date, habitID, store.Value(*value))
}

// SetNumberText coerces free-form user text through the locale-aware parser
// before recording. Blank text clears the key.
func (s *service) SetNumberText(ctx context.Context, date, habitID, text string) (*Record, error) {
	if strings.TrimSpace(text) == "" {
		return s.SetNumber(ctx, date, habitID, nil)
	}
	value, err := ParseLocaleNumber(text)
	if err != nil {
		return nil, err
	}
	return s.SetNumber(ctx, date, habitID, &value)
}

// SaveNote writes the free-text note. Saving a note creates the record if
// needed, even when no values are tracked yet.
func (s *service) SaveNote(ctx context.Context, date, note string) (*Record, error) {
	if !ValidKey(date) {
		return nil, ErrInvalidDate
	}
	return s.applyMerge(ctx, date, store.Merge{
		"note": store.Value(note),
	})
}

func (s *service) Summary(ctx context.Context, date string) (*Summary, error) {
	if !ValidKey(date) {
		return nil, ErrInvalidDate
	}

	rec, err := s.repo.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	defs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]bool, len(defs))
	for _, def := range defs {
		completed[def.ID] = Completed(def.Type, rec.Values[def.ID])
	}

	return &Summary{
		Record:    rec,
		Completed: completed,
		Rate:      CompletionRate(defs, rec),
	}, nil
}

func (s *service) Watch(ctx context.Context, date string, onSnapshot func(*Record), onError func(*store.Error)) error {
	if !ValidKey(date) {
		return ErrInvalidDate
	}
	return s.repo.Watch(ctx, date, onSnapshot, onError)
}

// lookupHabit resolves the definition and checks the setter matches its
// type. Writes to retired habits are rejected so old data stays frozen.
func (s *service) lookupHabit(ctx context.Context, habitID string, want habits.Type) (*habits.Definition, error) {
	def, err := s.catalog.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, ErrUnknownHabit
	}
	if def.Type != want {
		return nil, ErrTypeMismatch
	}
	if !def.Active {
		return nil, ErrInactiveHabit
	}
	return def, nil
}

func (s *service) applyValue(ctx context.Context, date, habitID string, fv store.FieldValue) (*Record, error) {
	if !ValidKey(date) {
		return nil, ErrInvalidDate
	}
	return s.applyMerge(ctx, date, store.Merge{
		"v." + habitID: fv,
	})
}

// applyMerge is the single write path. Stamps updatedAt on every write and
// date plus createdAt only when the write creates the record. A merge that
// only clears keys on a record that does not exist is skipped entirely.
func (s *service) applyMerge(ctx context.Context, date string, merge store.Merge) (*Record, error) {
	rec, err := s.repo.Get(ctx, date)
	if err != nil {
		return nil, err
	}

	if !rec.Exists && allCleared(merge) {
		return rec, nil
	}

	now := time.Now().UTC()
	merge["updatedAt"] = store.Value(now.Format(time.RFC3339))
	if !rec.Exists {
		merge["date"] = store.Value(date)
		merge["createdAt"] = store.Value(now.Format(time.RFC3339))
	}

	if err := s.repo.Apply(ctx, date, merge); err != nil {
		return nil, err
	}

	s.log.Info("Day record updated",
		zap.String("date", date),
		zap.Int("fields", len(merge)))

	return s.repo.Get(ctx, date)
}

func allCleared(merge store.Merge) bool {
	for _, fv := range merge {
		if !fv.Cleared() {
			return false
		}
	}
	return true
}
