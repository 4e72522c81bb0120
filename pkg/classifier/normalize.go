package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenize lower-cases text, strips diacritics, turns every rune that is not
// a letter, digit or space into a space and splits on whitespace. The same
// function runs at train and classify time.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	// transform chains keep internal buffers, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, lower)
	if err != nil {
		folded = lower
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, folded)

	return strings.Fields(cleaned)
}
