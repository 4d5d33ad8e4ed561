package entity

import "time"

// FinanceExpense represents a persisted expense record. The source file, when
// present, lives in the external blob store; the expense only holds a reference
// and the blob is removed when the expense is deleted.
type FinanceExpense struct {
	ID                   string    `json:"id"`
	Date                 string    `json:"date"` // ISO calendar date (YYYY-MM-DD)
	Supplier             string    `json:"supplier"`
	Amount               float64   `json:"amount"`
	Type                 string    `json:"type"`
	Status               string    `json:"status"`
	Description          string    `json:"description"`
	InvoiceNumber        string    `json:"invoice_number,omitempty"`
	SourceFileName       string    `json:"source_file_name,omitempty"`
	SourceFileID         string    `json:"source_file_id,omitempty"`
	SourceFileURL        string    `json:"source_file_url,omitempty"`
	ImportFingerprint    string    `json:"import_fingerprint"`
	ExtractionConfidence string    `json:"extraction_confidence,omitempty"`
	CurrencyCode         string    `json:"currency_code,omitempty"`
	ExtractionSource     string    `json:"extraction_source,omitempty"`
	TextSource           string    `json:"text_source,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// Year returns the fiscal year the expense falls in, derived from its date.
// Returns 0 when the date is unparseable.
func (e *FinanceExpense) Year() int {
	t, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return 0
	}
	return t.Year()
}
