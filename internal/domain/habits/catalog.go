package habits

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrHabitExists   = errors.New("habit already exists")
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// orderStep is the gap left between consecutive habits so reordering can
// insert between them without renumbering.
const orderStep = 10

// Service exposes the habit catalog. The catalog is append-only: there is
// no delete operation, retirement happens by setting active=false.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Definition, error)
	Get(ctx context.Context, id string) (*Definition, error)
	List(ctx context.Context) ([]Definition, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Definition, error)
	Watch(ctx context.Context, onSnapshot func([]Definition), onError func(*store.Error)) error
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Definition, error) {
	id, err := CamelCaseID(input.Label)
	if err != nil {
		return nil, err
	}

	if !input.Type.Valid() {
		return nil, ErrInvalidInput
	}
	if err := validateTypeMeta(input.Type, input.EnumOptions, input.Unit); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrHabitExists
	}

	defs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	order := nextOrder(defs)

	now := time.Now().UTC()
	def := &Definition{
		ID:          id,
		Label:       input.Label,
		Active:      true,
		Category:    input.Category,
		Type:        input.Type,
		EnumOptions: input.EnumOptions,
		Unit:        input.Unit,
		Order:       &order,
		Color:       input.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	merge := store.Merge{
		"label":     store.Value(def.Label),
		"active":    store.Value(true),
		"category":  store.Value(def.Category),
		"type":      store.Value(string(def.Type)),
		"order":     store.Value(order),
		"createdAt": store.Value(now.Format(time.RFC3339)),
		"updatedAt": store.Value(now.Format(time.RFC3339)),
	}
	switch def.Type {
	case TypeEnum, TypeMultiEnum:
		merge["enumOptions"] = store.Value(toAnySlice(def.EnumOptions))
	case TypeNumber:
		merge["unit"] = store.Value(def.Unit)
	}
	if def.Color != "" {
		merge["color"] = store.Value(def.Color)
	}

	if err := s.repo.Apply(ctx, id, merge); err != nil {
		return nil, err
	}

	s.log.Info("Habit created",
		zap.String("habit_id", id),
		zap.String("type", string(def.Type)))

	return def, nil
}

func (s *service) Get(ctx context.Context, id string) (*Definition, error) {
	def, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, ErrHabitNotFound
	}
	return def, nil
}

func (s *service) List(ctx context.Context) ([]Definition, error) {
	return s.repo.List(ctx)
}

// Update edits label, active, category, enumOptions (enum/multiEnum only)
// and unit (number only). The id and type are never written.
func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Definition, error) {
	def, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, ErrHabitNotFound
	}

	merge := store.Merge{}

	if input.Label != nil && *input.Label != def.Label {
		if strings.TrimSpace(*input.Label) == "" {
			return nil, ErrInvalidInput
		}
		def.Label = *input.Label
		merge["label"] = store.Value(def.Label)
	}
	if input.Active != nil && *input.Active != def.Active {
		def.Active = *input.Active
		merge["active"] = store.Value(def.Active)
	}
	if input.Category != nil && *input.Category != def.Category {
		def.Category = *input.Category
		merge["category"] = store.Value(def.Category)
	}
	if input.EnumOptions != nil {
		if def.Type != TypeEnum && def.Type != TypeMultiEnum {
			return nil, ErrInvalidInput
		}
		if err := validateTypeMeta(def.Type, input.EnumOptions, ""); err != nil {
			return nil, err
		}
		def.EnumOptions = input.EnumOptions
		merge["enumOptions"] = store.Value(toAnySlice(def.EnumOptions))
	}
	if input.Unit != nil {
		if def.Type != TypeNumber {
			return nil, ErrInvalidInput
		}
		if err := validateTypeMeta(def.Type, nil, *input.Unit); err != nil {
			return nil, err
		}
		def.Unit = *input.Unit
		merge["unit"] = store.Value(def.Unit)
	}
	if input.Color != nil && *input.Color != def.Color {
		def.Color = *input.Color
		if def.Color == "" {
			merge["color"] = store.Clear()
		} else {
			merge["color"] = store.Value(def.Color)
		}
	}

	if len(merge) == 0 {
		return def, nil
	}

	def.UpdatedAt = time.Now().UTC()
	merge["updatedAt"] = store.Value(def.UpdatedAt.Format(time.RFC3339))

	if err := s.repo.Apply(ctx, id, merge); err != nil {
		return nil, err
	}

	return def, nil
}

func (s *service) Watch(ctx context.Context, onSnapshot func([]Definition), onError func(*store.Error)) error {
	return s.repo.Watch(ctx, onSnapshot, onError)
}

func validateTypeMeta(t Type, options []string, unit string) error {
	switch t {
	case TypeEnum, TypeMultiEnum:
		if len(options) == 0 {
			return ErrInvalidInput
		}
		seen := make(map[string]struct{}, len(options))
		for _, opt := range options {
			if strings.TrimSpace(opt) == "" {
				return ErrInvalidInput
			}
			if _, dup := seen[opt]; dup {
				return ErrInvalidInput
			}
			seen[opt] = struct{}{}
		}
		if unit != "" {
			return ErrInvalidInput
		}
	case TypeNumber:
		if len(options) > 0 {
			return ErrInvalidInput
		}
		if strings.TrimSpace(unit) == "" {
			return ErrInvalidInput
		}
	case TypeBoolean:
		if len(options) > 0 || unit != "" {
			return ErrInvalidInput
		}
	}
	return nil
}

func nextOrder(defs []Definition) int {
	max := 0
	found := false
	for _, def := range defs {
		if def.Order != nil && (!found || *def.Order > max) {
			max = *def.Order
			found = true
		}
	}
	if !found {
		return orderStep
	}
	return max + orderStep
}

func toAnySlice(values []string) []interface{} {
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}
