package entity

// Confidence levels attached to extraction output. A low-confidence draft
// requires an explicit manual-review acknowledgment before it may be persisted.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ExpenseDraft is a transient, unpersisted extraction result for a single
// expense document, pending human confirmation.
type ExpenseDraft struct {
	Supplier      string `json:"supplier"`
	Amount        string `json:"amount"` // decimal string, e.g. "1200" or "1234.56"
	InvoiceNumber string `json:"invoice_number"`
	Date          string `json:"date"` // ISO date
	Type          string `json:"type"`
	Description   string `json:"description"`
	CurrencyCode  string `json:"currency_code"`

	Confidence      string            `json:"confidence"`
	FieldConfidence map[string]string `json:"field_confidence"`
	Warnings        []string          `json:"warnings"`
	Source          string            `json:"source"` // extraction provenance (native/ocr/hybrid/none)
	SourceFileName  string            `json:"source_file_name"`
}

// BudgetLine is one (category, amount) pair extracted from a budget document.
type BudgetLine struct {
	Category string `json:"category"`
	Amount   string `json:"amount"` // decimal string
}

// BudgetDraft is a transient extraction result for a budget document.
type BudgetDraft struct {
	Year       int          `json:"year"`
	Lines      []BudgetLine `json:"lines"`
	Confidence string       `json:"confidence"`
	Warnings   []string     `json:"warnings"`
	Source     string       `json:"source"`
}
