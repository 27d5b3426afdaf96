// Package textnorm builds comparison keys that ignore case and diacritics,
// so "LAP-001" and "láp-001" compare equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key returns the normalized comparison key of s.
func Key(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	// Casers keep state between calls and cannot be shared.
	return cases.Lower(language.Und).String(out)
}

// Equal reports whether a and b have the same key.
func Equal(a, b string) bool { return Key(a) == Key(b) }

// Contains reports whether the key of needle occurs in the key of haystack.
func Contains(haystack, needle string) bool {
	return strings.Contains(Key(haystack), Key(needle))
}
