package entity

// Role constants for actors interacting with the system
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleEmployee   = "Employee"
)

// Expense type constants
const (
	ExpenseTypePurchase    = "Purchase"
	ExpenseTypeLicense     = "License"
	ExpenseTypeMaintenance = "Maintenance"
	ExpenseTypeService     = "Service"
	ExpenseTypeCloud       = "Cloud"
)

// Expense status constants
const (
	ExpenseStatusPaid      = "Paid"
	ExpenseStatusPending   = "Pending"
	ExpenseStatusRecurring = "Recurring"
)

// Budget status constants
const (
	BudgetStatusOpen     = "En cours"
	BudgetStatusClosed   = "Clôturé"
	BudgetStatusArchived = "Archivé"
)

// Equipment status constants
const (
	EquipmentAvailable   = "Disponible"
	EquipmentAssigned    = "Attribué"
	EquipmentPending     = "En attente"
	EquipmentInRepair    = "En réparation"
	EquipmentMaintenance = "En maintenance préventive"
	EquipmentRetired     = "Retiré"
)

// Assignment status constants, mirroring the approval workflow plus
// return-specific states
const (
	AssignmentNone            = "NONE"
	AssignmentPendingManager  = "WAITING_MANAGER_APPROVAL"
	AssignmentPendingIT       = "WAITING_IT_PROCESSING"
	AssignmentPendingDelivery = "PENDING_DELIVERY"
	AssignmentConfirmed       = "CONFIRMED"
	AssignmentPendingReturn   = "PENDING_RETURN"
)

// Return condition constants recorded at inspection
const (
	ConditionExcellent    = "Excellent"
	ConditionGood         = "Bon"
	ConditionAverage      = "Moyen"
	ConditionBad          = "Mauvais"
	ConditionDegraded     = "Dégradé"
	ConditionOutOfService = "Hors service"
)

// ValidExpenseTypes lists the accepted expense type values
var ValidExpenseTypes = map[string]bool{
	ExpenseTypePurchase:    true,
	ExpenseTypeLicense:     true,
	ExpenseTypeMaintenance: true,
	ExpenseTypeService:     true,
	ExpenseTypeCloud:       true,
}
