package request

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// enyeMarker shields ñ/Ñ from the combining-mark removal pass. It is a
// private-use code point that cannot appear in applicant input.
const enyeMarker = ""

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName uppercases the text and strips diacritics, preserving the
// letter Ñ. Idempotent: applying it twice yields the same result.
func NormalizeName(s string) string {
	s = strings.ReplaceAll(s, "ñ", enyeMarker)
	s = strings.ReplaceAll(s, "Ñ", enyeMarker)

	stripped, _, err := transform.String(stripAccents, s)
	if err == nil {
		s = stripped
	}

	s = strings.ReplaceAll(s, enyeMarker, "Ñ")
	return strings.ToUpper(s)
}

// loginFold reduces a normalized name fragment to the lowercase ASCII
// letters and digits usable in a login name (Ñ folds to n).
func loginFold(s string) string {
	s = strings.ToLower(NormalizeName(s))
	s = strings.ReplaceAll(s, "ñ", "n")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
