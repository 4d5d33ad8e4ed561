// Package extract turns raw files into structured expense and budget drafts
// with confidence ratings. Extraction is heuristic: label-anchored patterns
// first, positional fallbacks second, filename-derived guesses last. Drafts
// are never persisted directly; the caller decides, based on the confidence
// rating, whether human review is required first.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/internal/amount"
	"github.com/CharbelKaf/asset-tracker/internal/document"
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
	"github.com/CharbelKaf/asset-tracker/internal/patterns"
)

// ExpenseExtractor produces expense drafts from invoice-like documents.
type ExpenseExtractor struct {
	docs   *document.Extractor
	logger *zap.Logger
	now    func() time.Time
}

// NewExpenseExtractor creates an expense draft extractor.
func NewExpenseExtractor(docs *document.Extractor, logger *zap.Logger) *ExpenseExtractor {
	return &ExpenseExtractor{docs: docs, logger: logger, now: time.Now}
}

// Extract builds an expense draft from the file. Amount and supplier absence
// produce warnings but never block draft creation.
func (x *ExpenseExtractor) Extract(ctx context.Context, f document.File) entity.ExpenseDraft {
	fromName := fieldsFromFilename(f.Name())
	res := x.docs.Extract(ctx, f)

	draft := entity.ExpenseDraft{
		Source:          res.Source,
		SourceFileName:  f.Name(),
		Warnings:        append([]string{}, res.Warnings...),
		FieldConfidence: map[string]string{},
		Description:     fmt.Sprintf("Importé depuis %s", f.Name()),
	}

	fields := map[string]fieldRating{}

	// Spreadsheet inputs work off the flattened join carried in Text.
	text := res.Text

	// Supplier: label-anchored, else first non-noise line, else filename.
	switch {
	case res.CanReadText && findSupplier(text) != "":
		fields["supplier"] = contentField(findSupplier(text))
	case fromName.Supplier != "":
		fields["supplier"] = filenameField(fromName.Supplier)
	default:
		fields["supplier"] = absentField()
	}

	// Amount: labeled totals preferred, else the largest number on the page
	// (invoice totals usually are), else filename.
	switch {
	case res.CanReadText && findAmount(text) != "":
		fields["amount"] = contentField(findAmount(text))
	case fromName.Amount != "":
		fields["amount"] = filenameField(fromName.Amount)
	default:
		fields["amount"] = absentField()
	}

	// Invoice number: first match wins, in table order.
	switch {
	case res.CanReadText && findInvoiceNumber(text) != "":
		fields["invoiceNumber"] = contentField(findInvoiceNumber(text))
	case fromName.InvoiceNumber != "":
		fields["invoiceNumber"] = filenameField(fromName.InvoiceNumber)
	default:
		fields["invoiceNumber"] = absentField()
	}

	// Date: labeled then bare patterns, defaulting to today.
	if iso := findDate(text, res.CanReadText); iso != "" {
		fields["date"] = contentField(iso)
	} else {
		fields["date"] = defaultedField(x.now().Format("2006-01-02"))
	}

	// Currency: first matching symbol or code.
	if code := findCurrency(text, res.CanReadText); code != "" {
		fields["currency"] = contentField(code)
	} else {
		fields["currency"] = absentField()
	}

	draft.Supplier = fields["supplier"].value
	draft.Amount = fields["amount"].value
	draft.InvoiceNumber = fields["invoiceNumber"].value
	draft.Date = fields["date"].value
	draft.CurrencyCode = fields["currency"].value
	draft.Type = detectExpenseType(text, f.Name())

	if draft.Supplier == "" {
		draft.Supplier = DefaultSupplier
	}

	for name, f := range fields {
		draft.FieldConfidence[name] = f.rating
	}
	draft.Confidence = capForSource(overallConfidence(fields), res.Source)

	if !res.CanReadText {
		draft.Warnings = append(draft.Warnings, "document illisible, champs déduits du nom de fichier uniquement")
	}
	if res.Source == document.SourceOCR || res.Source == document.SourceHybrid {
		draft.Warnings = append(draft.Warnings, "texte issu de l'OCR, vérification recommandée")
	}
	if draft.Amount == "" {
		draft.Warnings = append(draft.Warnings, "montant non détecté")
	}
	if draft.InvoiceNumber == "" {
		draft.Warnings = append(draft.Warnings, "numéro de facture non détecté")
	}
	if draft.Supplier == DefaultSupplier {
		draft.Warnings = append(draft.Warnings, "fournisseur non détecté")
	}

	x.logger.Debug("expense draft extracted",
		zap.String("file", f.Name()),
		zap.String("confidence", draft.Confidence),
		zap.String("source", draft.Source))

	return draft
}

// findInvoiceNumber runs the invoice rule table in order, first match wins.
func findInvoiceNumber(text string) string {
	for _, re := range patterns.InvoiceNumber {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// findAmount prefers label-anchored totals, then takes the maximum numeric
// token found anywhere in the text.
func findAmount(text string) string {
	for _, re := range patterns.AmountLabeled {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if v, ok := amount.ParsePositive(m[1]); ok {
				return amount.String(v)
			}
		}
	}

	best := 0.0
	for _, tok := range patterns.AmountToken.FindAllString(text, -1) {
		if v, ok := amount.ParsePositive(tok); ok && v > best {
			best = v
		}
	}
	if best > 0 {
		return amount.String(best)
	}
	return ""
}

// findSupplier tries the supplier label table, then the first line that is
// neither empty nor invoice boilerplate.
func findSupplier(text string) string {
	for _, re := range patterns.Supplier {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return cleanSupplier(m[1])
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 3 || len(line) > 80 {
			continue
		}
		if !strings.ContainsFunc(line, isLetter) {
			continue
		}
		if patterns.ContainsAny(line, patterns.SupplierNoise) {
			continue
		}
		return cleanSupplier(line)
	}
	return ""
}

func cleanSupplier(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;:-")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 80 {
		s = strings.TrimSpace(s[:80])
	}
	return s
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 127
}

// findDate tries labeled date patterns first, then any bare date token.
func findDate(text string, readable bool) string {
	if !readable {
		return ""
	}
	for _, re := range patterns.DateLabeled {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if iso, ok := parseDateToken(m[1]); ok {
				return iso
			}
		}
	}
	for _, m := range patterns.DateBare.FindAllStringSubmatch(text, -1) {
		if iso, ok := parseDateToken(m[1]); ok {
			return iso
		}
	}
	return ""
}

// findCurrency returns the first matching currency code.
func findCurrency(text string, readable bool) string {
	if !readable {
		return ""
	}
	for _, c := range patterns.Currency {
		if c.Pattern.MatchString(text) {
			return c.Code
		}
	}
	return ""
}

// detectExpenseType classifies from keywords in the body and filename,
// defaulting to Purchase.
func detectExpenseType(text, filename string) string {
	haystack := strings.ToLower(text + " " + filename)
	for _, family := range patterns.ExpenseTypeKeywords {
		for _, kw := range family.Keywords {
			if strings.Contains(haystack, kw) {
				return family.Type
			}
		}
	}
	return entity.ExpenseTypePurchase
}
