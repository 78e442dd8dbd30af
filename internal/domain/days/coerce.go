package days

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/francolucas/habit-tracker/internal/domain/habits"
)

// ErrNotANumber means user text could not be coerced to a finite number.
// Partial input (a lone separator) fails too; the entry UI keeps such text
// as a draft instead of committing it.
var ErrNotANumber = errors.New("not a number")

// ParseLocaleNumber accepts user text that may use either '.' or ',' as the
// decimal separator and the other as a thousands separator. When both
// appear, the one occurring later in the string is the decimal separator.
func ParseLocaleNumber(text string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	if cleaned == "" {
		return 0, ErrNotANumber
	}

	commas := strings.Count(cleaned, ",")
	dots := strings.Count(cleaned, ".")

	switch {
	case commas > 0 && dots > 0:
		// Both present: the later separator is the decimal one.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case commas == 1:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case commas > 1:
		// Repeated separators of one kind can only be grouping.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case dots > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrNotANumber
	}

	return value, nil
}

// NormalizeMultiEnum trims entries and drops empties and duplicates,
// preserving first-seen order.
func NormalizeMultiEnum(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Completed is the per-type completion predicate: whether a recorded value
// counts as "done". Used for both per-habit display and the aggregate rate.
func Completed(t habits.Type, value interface{}) bool {
	switch t {
	case habits.TypeBoolean:
		b, ok := value.(bool)
		return ok && b
	case habits.TypeEnum:
		s, ok := value.(string)
		return ok && s != ""
	case habits.TypeMultiEnum:
		return len(toStringSlice(value)) > 0
	case habits.TypeNumber:
		switch n := value.(type) {
		case float64:
			return !math.IsInf(n, 0) && !math.IsNaN(n)
		case int:
			return true
		}
	}
	return false
}

// CompletionRate returns completed active habits over all active habits as
// a percentage rounded to the nearest integer; 0 when nothing is active.
func CompletionRate(defs []habits.Definition, rec *Record) int {
	active := 0
	done := 0
	for _, def := range defs {
		if !def.Active {
			continue
		}
		active++
		if rec != nil && Completed(def.Type, rec.Values[def.ID]) {
			done++
		}
	}
	if active == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(active) * 100))
}

func toStringSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
