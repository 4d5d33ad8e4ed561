// Package finance owns the expense/budget ledger: fingerprint-based
// deduplication, permission-gated insert/update/delete and the budget "spent"
// aggregates those mutations roll into.
package finance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/CharbelKaf/asset-tracker/internal/amount"
)

// stripDiacritics decomposes accented characters and removes the combining
// marks, so "Société" and "Societe" normalize identically.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeToken lowercases, strips diacritics and collapses whitespace.
func normalizeToken(s string) string {
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	return strings.Join(strings.Fields(out), " ")
}

// Fingerprint derives the deduplication key of an expense: the pipe-joined
// tuple of normalized supplier, normalized invoice number, amount formatted
// to two decimals and date.
func Fingerprint(supplier, invoice string, amt float64, date string) string {
	return strings.Join([]string{
		normalizeToken(supplier),
		normalizeToken(invoice),
		amount.Format(amt),
		normalizeToken(date),
	}, "|")
}
