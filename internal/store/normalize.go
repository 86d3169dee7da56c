package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics removes diacritical marks from a string (e.g., "Amánah" -> "Amanah").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeClass normalizes a class label for comparison (lowercase, no
// diacritics, collapsed whitespace). Teachers type these by hand so
// "3 Amánah" and "3  amanah " must refer to the same class.
func NormalizeClass(class string) string {
	class = removeDiacritics(class)
	class = strings.ToLower(class)
	return strings.Join(strings.Fields(class), " ")
}
