package habits

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyIdentifier means the label contained no usable token, e.g. "!!!".
var ErrEmptyIdentifier = errors.New("label yields an empty identifier")

// stripMarks decomposes to NFD and drops combining marks, so "Café" becomes
// "Cafe" before tokenization.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CamelCaseID derives the stable document identifier from a display label.
// Deterministic: the same label always yields the same id.
func CamelCaseID(label string) (string, error) {
	stripped, _, err := transform.String(stripMarks, label)
	if err != nil {
		stripped = label
	}

	// Anything that is not a letter, digit, whitespace or hyphen becomes a
	// token boundary.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			return r
		}
		return ' '
	}, stripped)

	tokens := strings.FieldsFunc(cleaned, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	if len(tokens) == 0 {
		return "", ErrEmptyIdentifier
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(tokens[0]))
	for _, token := range tokens[1:] {
		r := []rune(strings.ToLower(token))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}

	return b.String(), nil
}
