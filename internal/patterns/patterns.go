// Package patterns holds the declarative label patterns consumed by the
// expense and budget extractors. Tables are ordered: the first matching
// pattern wins. Labels cover French and English, matching the documents the
// tracker actually receives.
package patterns

import (
	"regexp"
	"strings"
)

// InvoiceNumber patterns, label-anchored first, structured tokens last.
var InvoiceNumber = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:facture|invoice)\s*(?:n[°ºo]\.?|no\.?|num(?:éro)?|number|#)\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-_/]{2,24})`),
	regexp.MustCompile(`(?i)n[°ºo]\s*(?:de\s+)?facture\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-_/]{2,24})`),
	regexp.MustCompile(`(?i)\b(?:réf(?:érence)?|ref(?:erence)?)\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-_/]{4,24})`),
	regexp.MustCompile(`\b((?:FAC|FACT|INV|FA|F)[-/]?\d{2}[-/]?\d{2,10})\b`),
	regexp.MustCompile(`\b(20\d{2}[-/]\d{3,8})\b`),
}

// AmountLabeled patterns anchor on total labels; the captured group is the
// numeric token. Invoice totals are preferred over any other number on the
// page.
var AmountLabeled = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total\s*t\.?t\.?c\.?\s*[:\-]?\s*([\d][\d\s.,]*)`),
	regexp.MustCompile(`(?i)net\s*à\s*payer\s*[:\-]?\s*([\d][\d\s.,]*)`),
	regexp.MustCompile(`(?i)(?:montant|total)\s*(?:dû|due|à\s*payer)?\s*[:\-]?\s*([\d][\d\s.,]*)`),
	regexp.MustCompile(`(?i)(?:amount|total)\s*(?:due|payable)?\s*[:\-]?\s*([\d][\d\s.,]*)`),
	regexp.MustCompile(`(?i)grand\s*total\s*[:\-]?\s*([\d][\d\s.,]*)`),
}

// AmountToken matches any free-standing amount-like token.
var AmountToken = regexp.MustCompile(`\d{1,3}(?:[\s.,]\d{3})*(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?`)

// Supplier patterns, label-anchored. The captured group is the supplier text
// up to end of line.
var Supplier = []*regexp.Regexp{
	regexp.MustCompile(`(?i)fournisseur\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)(?:vendor|supplier|seller)\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)(?:émetteur|emetteur)\s*[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)from\s*[:\-]\s*(.+)`),
}

// DateLabeled patterns anchor on date labels.
var DateLabeled = []*regexp.Regexp{
	regexp.MustCompile(`(?i)date\s*(?:de\s*)?(?:facture|facturation|émission|emission)?\s*[:\-]?\s*(\d{1,4}[./\-]\d{1,2}[./\-]\d{1,4})`),
	regexp.MustCompile(`(?i)(?:le|émise?\s*le)\s+(\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4})`),
	regexp.MustCompile(`(?i)invoice\s*date\s*[:\-]?\s*(\d{1,4}[./\-]\d{1,2}[./\-]\d{1,4})`),
}

// DateBare matches any date-shaped token anywhere in the text.
var DateBare = regexp.MustCompile(`\b(\d{1,4}[./\-]\d{1,2}[./\-]\d{1,4})\b`)

// Currency patterns, first match wins. The value is the ISO code to record.
var Currency = []struct {
	Pattern *regexp.Regexp
	Code    string
}{
	{regexp.MustCompile(`€|\bEUR\b|\beuros?\b`), "EUR"},
	{regexp.MustCompile(`\$|\bUSD\b`), "USD"},
	{regexp.MustCompile(`£|\bGBP\b`), "GBP"},
	{regexp.MustCompile(`\bCHF\b`), "CHF"},
	{regexp.MustCompile(`\bMAD\b|\bDH\b`), "MAD"},
	{regexp.MustCompile(`\bXOF\b|\bFCFA\b`), "XOF"},
}

// ExpenseTypeKeywords maps lowercase keywords to expense types. Scanned in
// slice order so the more specific families win before the generic ones.
var ExpenseTypeKeywords = []struct {
	Keywords []string
	Type     string
}{
	{[]string{"licence", "license", "abonnement", "subscription", "saas"}, "License"},
	{[]string{"cloud", "aws", "azure", "gcp", "hébergement", "hebergement", "hosting", "datacenter"}, "Cloud"},
	{[]string{"maintenance", "réparation", "reparation", "repair", "entretien"}, "Maintenance"},
	{[]string{"service", "prestation", "conseil", "consulting", "support", "formation"}, "Service"},
}

// SupplierNoise lists lowercase tokens that disqualify a line from being used
// as a supplier fallback.
var SupplierNoise = []string{
	"facture", "invoice", "total", "tva", "vat", "date", "montant", "amount",
	"devis", "bon de commande", "page", "n°", "siret", "iban", "échéance",
}

// InvoiceKeywords are stripped from filenames when guessing a supplier.
var InvoiceKeywords = []string{
	"facture", "invoice", "fac", "inv", "recu", "reçu", "receipt", "devis",
	"quote", "scan", "copie", "copy",
}

// Budget header tokens, matched against lowercase column names when scoring
// candidate header rows.
var (
	BudgetCategoryHeaders = []string{"catégorie", "categorie", "category", "poste", "libellé", "libelle", "désignation", "designation", "rubrique", "ligne"}
	BudgetAmountHeaders   = []string{"montant", "amount", "budget", "alloué", "alloue", "allocated", "allocation", "total", "prévision", "prevision"}
	BudgetYearHeaders     = []string{"année", "annee", "year", "exercice", "fiscal"}
)

// BudgetLineNoise lists words that mark a derived category as an aggregate or
// header rather than a real budget line.
var BudgetLineNoise = []string{
	"total", "budget", "année", "annee", "year", "sous-total", "sous total",
	"somme", "cumul", "reste", "solde", "exercice",
}

// YearToken matches a plausible fiscal year.
var YearToken = regexp.MustCompile(`\b(20\d{2})\b`)

// ContainsAny reports whether the lowercase form of s contains any of the
// given lowercase tokens.
func ContainsAny(s string, tokens []string) bool {
	l := strings.ToLower(s)
	for _, tok := range tokens {
		if strings.Contains(l, tok) {
			return true
		}
	}
	return false
}
