package entity

import "time"

// Approval is an equipment request moving through the validation workflow.
// It is created by a requester and mutated only through transitions accepted
// by the workflow state machine.
type Approval struct {
	ID                  string           `json:"id"`
	RequesterID         string           `json:"requester_id"`
	RequesterName       string           `json:"requester_name"`
	RequesterRole       string           `json:"requester_role"`
	BeneficiaryID       string           `json:"beneficiary_id"`
	BeneficiaryName     string           `json:"beneficiary_name"`
	IsDelegated         bool             `json:"is_delegated"` // true when requester != beneficiary
	EquipmentCategory   string           `json:"equipment_category"`
	Reason              string           `json:"reason"`
	Urgency             string           `json:"urgency"`
	EstimatedCost       float64          `json:"estimated_cost"`
	ValidationSteps     []ValidationStep `json:"validation_steps"`
	CurrentStep         int              `json:"current_step"`
	Status              string           `json:"status"`
	AssignedEquipmentID string           `json:"assigned_equipment_id,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// ValidationStep records one completed or pending validation in the workflow.
type ValidationStep struct {
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	ValidatorID string    `json:"validator_id,omitempty"`
	Validator   string    `json:"validator,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	ValidatedAt time.Time `json:"validated_at,omitempty"`
}

// Actor identifies who is attempting an operation, with enough identity
// context for the role gates (manager-of-record checks in particular).
type Actor struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	ManagesID []string `json:"manages_id,omitempty"` // user ids this actor manages
}

// Manages reports whether the actor is the manager of record for userID.
func (a Actor) Manages(userID string) bool {
	for _, id := range a.ManagesID {
		if id == userID {
			return true
		}
	}
	return false
}
