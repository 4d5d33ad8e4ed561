// Package rules holds the guard rules protecting user and equipment
// mutations, plus the equipment return workflow. Like the approval state
// machine, refusals are structured decisions rather than errors.
package rules

import (
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
	"github.com/CharbelKaf/asset-tracker/internal/domain/workflow"
)

// UserContext carries the relational facts the user guards need: the guards
// are pure and do not query storage themselves.
type UserContext struct {
	ActiveApprovals          int  // non-terminal approvals involving the user
	PendingManagerValidation bool // an approval involving the user awaits manager validation
	AssignedEquipment        int  // equipment records currently assigned to the user
}

// UserUpdate describes the fields an update attempt wants to change. Nil
// pointers mean "unchanged".
type UserUpdate struct {
	IsActive  *bool
	ManagerID *string
}

// CanDeleteEquipment refuses deletion of equipment that is assigned, caught
// in a workflow, or carries any lifecycle history.
func CanDeleteEquipment(eq *entity.Equipment) workflow.Decision {
	switch eq.Status {
	case entity.EquipmentAssigned:
		return workflow.Refuse("impossible de supprimer un équipement attribué")
	case entity.EquipmentPending:
		return workflow.Refuse("impossible de supprimer un équipement en cours d'attribution")
	}
	if eq.HasHistory {
		return workflow.Refuse("impossible de supprimer un équipement avec un historique")
	}
	return workflow.Allow()
}

// CanUpdateUser guards the two sensitive user mutations: deactivation while
// approvals are in flight, and a manager change while a manager validation is
// pending.
func CanUpdateUser(u *entity.User, update UserUpdate, ctx UserContext) workflow.Decision {
	if update.IsActive != nil && !*update.IsActive && u.IsActive && ctx.ActiveApprovals > 0 {
		return workflow.Refuse("impossible de désactiver un utilisateur avec %d demande(s) en cours", ctx.ActiveApprovals)
	}
	if update.ManagerID != nil && *update.ManagerID != u.ManagerID && ctx.PendingManagerValidation {
		return workflow.Refuse("impossible de changer de manager pendant une validation managériale")
	}
	return workflow.Allow()
}

// CanDeleteUser refuses deletion while the user holds equipment or has
// approvals in flight.
func CanDeleteUser(u *entity.User, ctx UserContext) workflow.Decision {
	if ctx.AssignedEquipment > 0 {
		return workflow.Refuse("impossible de supprimer un utilisateur avec %d équipement(s) attribué(s)", ctx.AssignedEquipment)
	}
	if ctx.ActiveApprovals > 0 {
		return workflow.Refuse("impossible de supprimer un utilisateur avec %d demande(s) en cours", ctx.ActiveApprovals)
	}
	return workflow.Allow()
}
