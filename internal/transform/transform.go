// Package transform normalizes raw source values: person identifiers, locale
// formatted amounts, province names and yes/no flags.
package transform

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeID trims an identifier. Identifiers are always compared as
// strings, never as numbers.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// ParseLocaleNumber parses an amount written with "." as thousands separator
// and "," as decimal separator ("9.470.000,00" → 9470000). Empty or
// unparsable text reports ok=false.
func ParseLocaleNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseNumber parses plain numeric text ("12", "12.0", " 3 ").
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RemoveDiacritics strips combining marks ("San José" → "San Jose").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeProvince turns free-text province names into a grouping key:
// trimmed, without diacritics, upper-cased.
func NormalizeProvince(s string) string {
	return strings.ToUpper(RemoveDiacritics(strings.TrimSpace(s)))
}

// IsActiveFlag reports whether a labor record's "currently working" flag is set.
func IsActiveFlag(s string) bool {
	return strings.ToUpper(strings.TrimSpace(s)) == "S"
}

// Round1 rounds half to even at one decimal (12.25 → 12.2).
func Round1(f float64) float64 {
	return math.RoundToEven(f*10) / 10
}

// Percent returns num/den*100 rounded to one decimal, or 0 when den is zero.
func Percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return Round1(float64(num) / float64(den) * 100)
}
