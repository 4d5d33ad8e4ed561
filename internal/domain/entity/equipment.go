package entity

import "time"

// Equipment is the subset of the equipment record governed by the business
// rules: lifecycle status, assignment mirror of the approval workflow and the
// assignment/return audit trail. All mutations go through the patches derived
// by the workflow and return rules, never ad hoc.
type Equipment struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Status           string `json:"status"`
	AssignmentStatus string `json:"assignment_status"`
	AssignedUserID   string `json:"assigned_user_id,omitempty"`

	AssignedBy          string     `json:"assigned_by,omitempty"`
	AssignedAt          *time.Time `json:"assigned_at,omitempty"`
	ManagerValidationBy string     `json:"manager_validation_by,omitempty"`
	ManagerValidationAt *time.Time `json:"manager_validation_at,omitempty"`
	ConfirmedBy         string     `json:"confirmed_by,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`

	ReturnRequestedBy   string     `json:"return_requested_by,omitempty"`
	ReturnRequestedAt   *time.Time `json:"return_requested_at,omitempty"`
	LastReturnCondition string     `json:"last_return_condition,omitempty"`
	InspectedAt         *time.Time `json:"inspected_at,omitempty"`
	RepairStartDate     *time.Time `json:"repair_start_date,omitempty"`

	// HasHistory is true once the equipment has any lifecycle event
	// (assignment, repair). Deletion is reserved for equipment without one.
	HasHistory bool `json:"has_history"`
}

// User is the subset of the user record the guard rules look at.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ManagerID string `json:"manager_id,omitempty"`
	IsActive  bool   `json:"is_active"`
}
