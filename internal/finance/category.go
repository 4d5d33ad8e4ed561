package finance

import "github.com/CharbelKaf/asset-tracker/internal/domain/entity"

// Budget category labels credited by the ledger.
const (
	CategoryHardware    = "Matériel IT"
	CategoryLicenses    = "Licences Logiciel"
	CategoryCloud       = "Cloud Infrastructure"
	CategoryMaintenance = "Maintenance & Services"
)

// CategoryForType maps an expense type to the budget category its amount is
// attributed to.
func CategoryForType(expenseType string) string {
	switch expenseType {
	case entity.ExpenseTypePurchase:
		return CategoryHardware
	case entity.ExpenseTypeLicense:
		return CategoryLicenses
	case entity.ExpenseTypeCloud:
		return CategoryCloud
	default:
		return CategoryMaintenance
	}
}
