package workflow

import (
	"time"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

// EquipmentPatch is the equipment-state change a successful approval
// transition produces. Deriving it is a pure function of (target status,
// actor, timestamp); the caller applies it to the equipment record.
type EquipmentPatch struct {
	Status              *string
	AssignmentStatus    *string
	ClearAssignedUser   bool
	AssignedBy          *string
	AssignedAt          *time.Time
	ManagerValidationBy *string
	ManagerValidationAt *time.Time
	ConfirmedBy         *string
	ConfirmedAt         *time.Time
	MarkHistory         bool
}

// DeriveEquipmentPatch maps a target approval status to the equipment fields
// it stamps. Unknown or initial statuses yield an empty patch.
func DeriveEquipmentPatch(target Status, actorID string, now time.Time) EquipmentPatch {
	switch Normalize(target) {
	case StatusWaitingIT:
		// Manager approved: the request enters IT processing.
		return EquipmentPatch{
			Status:              strp(entity.EquipmentPending),
			AssignmentStatus:    strp(string(StatusWaitingIT)),
			ManagerValidationBy: strp(actorID),
			ManagerValidationAt: timep(now),
		}

	case StatusWaitingDotation:
		return EquipmentPatch{
			Status:           strp(entity.EquipmentPending),
			AssignmentStatus: strp(string(StatusWaitingDotation)),
		}

	case StatusPendingDelivery:
		// IT prepared the device; it is reserved pending user confirmation.
		return EquipmentPatch{
			Status:           strp(entity.EquipmentPending),
			AssignmentStatus: strp(string(StatusPendingDelivery)),
			AssignedBy:       strp(actorID),
			AssignedAt:       timep(now),
		}

	case StatusCompleted:
		return EquipmentPatch{
			Status:           strp(entity.EquipmentAssigned),
			AssignmentStatus: strp(entity.AssignmentConfirmed),
			ConfirmedBy:      strp(actorID),
			ConfirmedAt:      timep(now),
			MarkHistory:      true,
		}

	case StatusRejected, StatusCancelled:
		// Release the equipment back to the pool.
		return EquipmentPatch{
			Status:            strp(entity.EquipmentAvailable),
			AssignmentStatus:  strp(entity.AssignmentNone),
			ClearAssignedUser: true,
		}
	}

	return EquipmentPatch{}
}

// Apply writes the patch onto the equipment record.
func (p EquipmentPatch) Apply(eq *entity.Equipment) {
	if eq == nil {
		return
	}
	if p.Status != nil {
		eq.Status = *p.Status
	}
	if p.AssignmentStatus != nil {
		eq.AssignmentStatus = *p.AssignmentStatus
	}
	if p.ClearAssignedUser {
		eq.AssignedUserID = ""
	}
	if p.AssignedBy != nil {
		eq.AssignedBy = *p.AssignedBy
	}
	if p.AssignedAt != nil {
		eq.AssignedAt = p.AssignedAt
	}
	if p.ManagerValidationBy != nil {
		eq.ManagerValidationBy = *p.ManagerValidationBy
	}
	if p.ManagerValidationAt != nil {
		eq.ManagerValidationAt = p.ManagerValidationAt
	}
	if p.ConfirmedBy != nil {
		eq.ConfirmedBy = *p.ConfirmedBy
	}
	if p.ConfirmedAt != nil {
		eq.ConfirmedAt = p.ConfirmedAt
	}
	if p.MarkHistory {
		eq.HasHistory = true
	}
}

// IsZero reports whether the patch changes nothing.
func (p EquipmentPatch) IsZero() bool {
	return p.Status == nil && p.AssignmentStatus == nil && !p.ClearAssignedUser &&
		p.AssignedBy == nil && p.ManagerValidationBy == nil && p.ConfirmedBy == nil &&
		!p.MarkHistory
}

func strp(s string) *string        { return &s }
func timep(t time.Time) *time.Time { return &t }
