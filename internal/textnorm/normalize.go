// Package textnorm canonicalizes free-text product names for comparison:
// case folding, punctuation stripping, and typo correction against a
// known vocabulary of brand and product words.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize converts raw text into a comparison-ready form: lowercase,
// punctuation stripped, whitespace collapsed, ends trimmed. Digits and
// decimal points inside numbers survive, so sizes like "2kg" and "2.5l"
// keep their meaning. It is total and idempotent.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	runes := []rune(lower)

	var b strings.Builder
	b.Grow(len(lower))
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' && i > 0 && i < len(runes)-1 &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			// keep decimal point inside a number ("2.5l")
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens normalizes text and splits it into its word tokens.
func Tokens(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}
