package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCaseID(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{name: "single word lowercases", label: "Floss", expected: "floss"},
		{name: "two words camelCase", label: "Workout Intensity", expected: "workoutIntensity"},
		{name: "hyphen is a separator", label: "screen-free evening", expected: "screenFreeEvening"},
		{name: "punctuation becomes boundary", label: "Read (20 min)", expected: "read20Min"},
		{name: "diacritics are stripped", label: "Café visit", expected: "cafeVisit"},
		{name: "mixed case normalizes", label: "WAKE UP Early", expected: "wakeUpEarly"},
		{name: "extra whitespace collapses", label: "  drink   water  ", expected: "drinkWater"},
		{name: "digits survive", label: "10k steps", expected: "10kSteps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := CamelCaseID(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestCamelCaseIDEmpty(t *testing.T) {
	for _, label := range []string{"", "!!!", "***", "  ", "---"} {
		_, err := CamelCaseID(label)
		assert.ErrorIs(t, err, ErrEmptyIdentifier, "label %q", label)
	}
}

func TestCamelCaseIDDeterministic(t *testing.T) {
	first, err := CamelCaseID("Workout Intensity")
	require.NoError(t, err)

	second, err := CamelCaseID("Workout Intensity")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
