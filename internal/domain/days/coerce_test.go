package days

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francolucas/habit-tracker/internal/domain/habits"
)

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{name: "plain integer", text: "3", expected: 3},
		{name: "dot decimal", text: "2.5", expected: 2.5},
		{name: "comma decimal", text: "2,5", expected: 2.5},
		{name: "european thousands", text: "1.234,56", expected: 1234.56},
		{name: "english thousands", text: "1,234.56", expected: 1234.56},
		{name: "comma thousands only", text: "1,234,567", expected: 1234567},
		{name: "surrounding whitespace", text: "  7,25  ", expected: 7.25},
		{name: "inner space as thousands gap", text: "1 234.5", expected: 1234.5},
		{name: "negative", text: "-0,5", expected: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := ParseLocaleNumber(tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, value, 1e-9)
		})
	}
}

func TestParseLocaleNumberRejects(t *testing.T) {
	for _, text := range []string{"", "   ", "abc", "1.2.3,4,5x", ",", ".", "Inf", "NaN"} {
		_, err := ParseLocaleNumber(text)
		assert.ErrorIs(t, err, ErrNotANumber, "text %q", text)
	}
}

func TestNormalizeMultiEnum(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected []string
	}{
		{
			name:     "trims dedupes and drops blanks",
			values:   []string{"Vitamin D", "Vitamin D", "  ", " Magnesium "},
			expected: []string{"Vitamin D", "Magnesium"},
		},
		{
			name:     "order of first occurrence wins",
			values:   []string{"b", "a", "b"},
			expected: []string{"b", "a"},
		},
		{
			name:     "all blanks collapse to empty",
			values:   []string{"", "  "},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeMultiEnum(tt.values))
		})
	}
}

func TestCompleted(t *testing.T) {
	tests := []struct {
		name     string
		habit    habits.Type
		value    interface{}
		expected bool
	}{
		{name: "boolean true", habit: habits.TypeBoolean, value: true, expected: true},
		{name: "boolean false is recorded but not done", habit: habits.TypeBoolean, value: false, expected: false},
		{name: "boolean absent", habit: habits.TypeBoolean, value: nil, expected: false},
		{name: "enum selected", habit: habits.TypeEnum, value: "medium", expected: true},
		{name: "enum absent", habit: habits.TypeEnum, value: nil, expected: false},
		{name: "multi with entries", habit: habits.TypeMultiEnum, value: []string{"a"}, expected: true},
		{name: "multi decoded as interfaces", habit: habits.TypeMultiEnum, value: []interface{}{"a"}, expected: true},
		{name: "multi empty", habit: habits.TypeMultiEnum, value: []string{}, expected: false},
		{name: "number zero counts", habit: habits.TypeNumber, value: 0.0, expected: true},
		{name: "number absent", habit: habits.TypeNumber, value: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Completed(tt.habit, tt.value))
		})
	}
}

func TestCompletionRate(t *testing.T) {
	defs := []habits.Definition{
		{ID: "floss", Type: habits.TypeBoolean, Active: true},
		{ID: "water", Type: habits.TypeNumber, Active: true},
		{ID: "mood", Type: habits.TypeEnum, Active: true},
		{ID: "run", Type: habits.TypeBoolean, Active: true},
		{ID: "old", Type: habits.TypeBoolean, Active: false},
	}

	rec := &Record{Values: map[string]interface{}{
		"floss": true,
		"water": 2.5,
		// retired habit data does not count either way
		"old": true,
	}}

	assert.Equal(t, 50, CompletionRate(defs, rec))
}

func TestCompletionRateEdges(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(nil, &Record{}))
	assert.Equal(t, 0, CompletionRate([]habits.Definition{
		{ID: "old", Type: habits.TypeBoolean, Active: false},
	}, &Record{}))

	// One of three done rounds to nearest integer.
	defs := []habits.Definition{
		{ID: "a", Type: habits.TypeBoolean, Active: true},
		{ID: "b", Type: habits.TypeBoolean, Active: true},
		{ID: "c", Type: habits.TypeBoolean, Active: true},
	}
	rec := &Record{Values: map[string]interface{}{"a": true}}
	assert.Equal(t, 33, CompletionRate(defs, rec))

	// Nil record means nothing tracked.
	assert.Equal(t, 0, CompletionRate(defs, nil))
}
