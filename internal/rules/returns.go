package rules

import (
	"time"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
	"github.com/CharbelKaf/asset-tracker/internal/domain/workflow"
)

// conditionStatus maps the inspected condition of a returned equipment to its
// next lifecycle status.
var conditionStatus = map[string]string{
	entity.ConditionExcellent:    entity.EquipmentAvailable,
	entity.ConditionGood:         entity.EquipmentAvailable,
	entity.ConditionAverage:      entity.EquipmentAvailable,
	entity.ConditionBad:          entity.EquipmentInRepair,
	entity.ConditionDegraded:     entity.EquipmentMaintenance,
	entity.ConditionOutOfService: entity.EquipmentRetired,
}

// InitiateReturn starts the return flow for an assigned equipment: the record
// is parked "En attente"/PENDING_RETURN with the requester and timestamp
// stamped, until an inspection settles its fate.
func InitiateReturn(eq *entity.Equipment, requesterID string, now time.Time) workflow.Decision {
	if eq.Status != entity.EquipmentAssigned {
		return workflow.Refuse("seul un équipement attribué peut être retourné (statut actuel: %s)", eq.Status)
	}

	eq.Status = entity.EquipmentPending
	eq.AssignmentStatus = entity.AssignmentPendingReturn
	eq.ReturnRequestedBy = requesterID
	eq.ReturnRequestedAt = &now
	return workflow.Allow()
}

// InspectReturn settles a pending return: the condition picks the final
// status, the assignment audit trail is cleared and the inspection is
// recorded. Repair flows additionally get a repair start date.
func InspectReturn(eq *entity.Equipment, condition string, now time.Time) workflow.Decision {
	if eq.AssignmentStatus != entity.AssignmentPendingReturn {
		return workflow.Refuse("aucun retour en attente pour cet équipement")
	}
	status, ok := conditionStatus[condition]
	if !ok {
		return workflow.Refuse("état %q inconnu", condition)
	}

	eq.Status = status
	eq.AssignmentStatus = entity.AssignmentNone
	eq.AssignedUserID = ""
	eq.AssignedBy = ""
	eq.AssignedAt = nil
	eq.ManagerValidationBy = ""
	eq.ManagerValidationAt = nil
	eq.ConfirmedBy = ""
	eq.ConfirmedAt = nil

	eq.LastReturnCondition = condition
	eq.InspectedAt = &now
	if status == entity.EquipmentInRepair || status == entity.EquipmentMaintenance {
		eq.RepairStartDate = &now
	} else {
		eq.RepairStartDate = nil
	}
	eq.HasHistory = true
	return workflow.Allow()
}
