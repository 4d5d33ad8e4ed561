package entity

import "time"

// FinanceBudget is the yearly spending envelope. At most one record exists per
// fiscal year. TotalAllocated is stored alongside Items and must stay equal to
// the sum of their allocations.
type FinanceBudget struct {
	Year           int                 `json:"year"`
	Status         string              `json:"status"`
	TotalAllocated float64             `json:"total_allocated"`
	Items          []FinanceBudgetItem `json:"items"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// FinanceBudgetItem is one category line within a yearly budget. Category is a
// natural key within the year. Spent is a running aggregate maintained
// exclusively by the ledger update procedures and never drops below zero.
type FinanceBudgetItem struct {
	Category  string  `json:"category"`
	Type      string  `json:"type"`
	Allocated float64 `json:"allocated"`
	Spent     float64 `json:"spent"`
}

// Item returns the budget line for the given category, or nil.
func (b *FinanceBudget) Item(category string) *FinanceBudgetItem {
	for i := range b.Items {
		if b.Items[i].Category == category {
			return &b.Items[i]
		}
	}
	return nil
}

// RecomputeTotal refreshes TotalAllocated from the item allocations.
func (b *FinanceBudget) RecomputeTotal() {
	total := 0.0
	for i := range b.Items {
		total += b.Items[i].Allocated
	}
	b.TotalAllocated = total
}
