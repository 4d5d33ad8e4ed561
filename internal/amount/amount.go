// Package amount normalizes heterogeneous numeric tokens found in financial
// documents into canonical numbers. Documents mix EU ("1.234,56") and US
// ("1,234.56") formats unpredictably, so separators are disambiguated by
// position rather than locale: when both appear, whichever occurs last in the
// token is the decimal separator.
package amount

import (
	"math"
	"strconv"
	"strings"
)

// Parse converts an arbitrary token possibly containing digits, spaces,
// dots, commas and currency symbols into a number. The second return value is
// false when no finite number can be derived.
func Parse(token string) (float64, bool) {
	cleaned := sanitize(token)
	if cleaned == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the last one is the decimal separator, the other
		// is thousands grouping.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = resolveLoneSeparator(cleaned, ",")
	case lastDot >= 0:
		cleaned = resolveLoneSeparator(cleaned, ".")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParsePositive is Parse restricted to strictly positive magnitudes, the form
// required wherever an expense or budget amount is expected.
func ParsePositive(token string) (float64, bool) {
	v, ok := Parse(token)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Format renders a value with exactly two decimals, the form used when
// composing import fingerprints.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// String renders a value in its shortest decimal form, the form carried by
// extraction drafts ("1200.00" becomes "1200").
func String(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitize keeps digits, separators and spaces, then drops the spaces. Spaces
// only ever act as thousands grouping in the inputs we see.
func sanitize(token string) string {
	var b strings.Builder
	for _, r := range token {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveLoneSeparator decides whether a single separator kind is decimal or
// thousands grouping: exactly one occurrence followed by a two-digit fraction
// reads as decimal, anything else is grouping and is stripped.
func resolveLoneSeparator(s, sep string) string {
	if strings.Count(s, sep) == 1 {
		idx := strings.LastIndex(s, sep)
		if len(s)-idx-1 == 2 {
			if sep == "," {
				return strings.Replace(s, ",", ".", 1)
			}
			return s
		}
	}
	return strings.ReplaceAll(s, sep, "")
}
