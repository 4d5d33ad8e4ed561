package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Determinism(t *testing.T) {
	// Casing, diacritics and whitespace variants must collapse onto the
	// same fingerprint.
	base := Fingerprint("Société Générale", "FAC-2024-001", 1234.5, "2024-03-15")

	variants := []struct {
		supplier string
		invoice  string
	}{
		{"societe generale", "fac-2024-001"},
		{"SOCIÉTÉ   GÉNÉRALE", "FAC-2024-001"},
		{"  Societe\tGenerale  ", " FAC-2024-001 "},
	}
	for _, v := range variants {
		assert.Equal(t, base, Fingerprint(v.supplier, v.invoice, 1234.5, "2024-03-15"),
			"supplier=%q invoice=%q", v.supplier, v.invoice)
	}
}

func TestFingerprint_Discriminates(t *testing.T) {
	base := Fingerprint("Acme", "INV-1", 100, "2024-01-01")

	assert.NotEqual(t, base, Fingerprint("Acme", "INV-2", 100, "2024-01-01"))
	assert.NotEqual(t, base, Fingerprint("Acme", "INV-1", 100.01, "2024-01-01"))
	assert.NotEqual(t, base, Fingerprint("Acme", "INV-1", 100, "2024-01-02"))
	assert.NotEqual(t, base, Fingerprint("Acme Corp", "INV-1", 100, "2024-01-01"))
}

func TestFingerprint_AmountFormatting(t *testing.T) {
	// 100, 100.0 and 100.00 are the same magnitude and must fingerprint
	// identically via the two-decimal formatting.
	assert.Equal(t,
		Fingerprint("Acme", "INV-1", 100, "2024-01-01"),
		Fingerprint("Acme", "INV-1", 100.00, "2024-01-01"))
	assert.Equal(t, "acme|inv-1|100.00|2024-01-01",
		Fingerprint("Acme", "INV-1", 100, "2024-01-01"))
}

func TestCategoryForType(t *testing.T) {
	tests := []struct {
		expenseType string
		want        string
	}{
		{"Purchase", CategoryHardware},
		{"License", CategoryLicenses},
		{"Cloud", CategoryCloud},
		{"Maintenance", CategoryMaintenance},
		{"Service", CategoryMaintenance},
		{"anything else", CategoryMaintenance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryForType(tt.expenseType), tt.expenseType)
	}
}
