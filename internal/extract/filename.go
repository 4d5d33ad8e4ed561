package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/CharbelKaf/asset-tracker/internal/amount"
	"github.com/CharbelKaf/asset-tracker/internal/patterns"
)

// DefaultSupplier is used when no supplier can be derived from the document
// or its filename.
const DefaultSupplier = "Fournisseur non détecté"

var filenameSeparators = regexp.MustCompile(`[._\-]+`)

// filenameFields is the filename-derived fallback for an expense draft: the
// filename often carries the supplier, an amount and sometimes an invoice
// reference when the document body is unreadable.
type filenameFields struct {
	Supplier      string
	Amount        string
	InvoiceNumber string
}

// fieldsFromFilename strips the extension, converts separators to spaces and
// scans for the largest plausible amount, a supplier guess and an
// invoice-shaped token.
func fieldsFromFilename(name string) filenameFields {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	spaced := filenameSeparators.ReplaceAllString(base, " ")

	fields := filenameFields{}

	// Largest numeric token is the amount candidate.
	best := 0.0
	for _, tok := range strings.Fields(spaced) {
		if v, ok := amount.ParsePositive(tok); ok && v > best {
			best = v
		}
	}
	if best > 0 {
		fields.Amount = amount.String(best)
	}

	// Invoice-shaped token, using the same rule table as the body scan.
	for _, re := range patterns.InvoiceNumber {
		if m := re.FindStringSubmatch(base); len(m) > 1 {
			fields.InvoiceNumber = strings.TrimSpace(m[1])
			break
		}
	}

	// Supplier guess: what remains once digits and invoice keywords are gone.
	var words []string
	for _, w := range strings.Fields(spaced) {
		if strings.IndexFunc(w, isDigit) >= 0 {
			continue
		}
		if containsToken(patterns.InvoiceKeywords, strings.ToLower(w)) {
			continue
		}
		words = append(words, w)
	}
	if len(words) > 0 {
		fields.Supplier = strings.Join(words, " ")
	}

	return fields
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func containsToken(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
