package workflow

import (
	"fmt"
	"time"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

// Decision is the outcome of a rule evaluation. Refusals carry a
// human-readable reason naming the violated rule; they are expected outcomes,
// not errors.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Allow is the positive decision.
func Allow() Decision { return Decision{Allowed: true} }

// Refuse builds a refusal with the given reason.
func Refuse(format string, args ...interface{}) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// transitions is the fixed adjacency map: the statuses reachable from each
// status in one step. Rejected and Cancelled are reachable from every
// non-terminal status.
var transitions = map[Status][]Status{
	StatusWaitingManager:  {StatusWaitingIT, StatusRejected, StatusCancelled},
	StatusWaitingIT:       {StatusWaitingDotation, StatusRejected, StatusCancelled},
	StatusWaitingDotation: {StatusPendingDelivery, StatusRejected, StatusCancelled},
	StatusPendingDelivery: {StatusCompleted, StatusRejected, StatusCancelled},
}

// CanTransitionApprovalStatus validates a requested status change against the
// adjacency map and the role gates. A transition to the same status is always
// a no-op success. Gates only run once the transition is structurally legal.
func CanTransitionApprovalStatus(a *entity.Approval, target Status, actor entity.Actor) Decision {
	current := Normalize(Status(a.Status))
	target = Normalize(target)

	if current == target {
		return Allow()
	}

	if !isReachable(current, target) {
		return Refuse("transition de %s vers %s non autorisée", current, target)
	}

	return checkGate(a, current, actor)
}

func isReachable(current, target Status) bool {
	for _, next := range transitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// checkGate enforces the role/identity precondition attached to the current
// status. A status without a gate allows the transition once the structural
// check has passed.
func checkGate(a *entity.Approval, current Status, actor entity.Actor) Decision {
	if actor.Role == entity.RoleSuperAdmin {
		return Allow()
	}

	switch current {
	case StatusWaitingManager, StatusWaitingDotation:
		if actor.Role != entity.RoleManager {
			return Refuse("cette validation requiert le rôle Manager")
		}
		if actor.ID == a.RequesterID || actor.ID == a.BeneficiaryID ||
			actor.Manages(a.RequesterID) || actor.Manages(a.BeneficiaryID) {
			return Allow()
		}
		return Refuse("vous ne gérez pas ce collaborateur")

	case StatusWaitingIT:
		if actor.Role != entity.RoleAdmin {
			return Refuse("cette étape requiert le rôle Admin")
		}
		return Allow()

	case StatusPendingDelivery:
		if actor.ID != a.BeneficiaryID {
			return Refuse("seul le bénéficiaire peut confirmer la réception")
		}
		return Allow()
	}

	return Allow()
}

// ApplyTransition validates then applies the transition: the approval status
// is updated, a validation step is recorded and the matching equipment patch
// is returned for the caller to apply. Nothing is mutated on refusal.
func ApplyTransition(a *entity.Approval, target Status, actor entity.Actor, now time.Time) (Decision, EquipmentPatch) {
	decision := CanTransitionApprovalStatus(a, target, actor)
	if !decision.Allowed {
		return decision, EquipmentPatch{}
	}

	current := Normalize(Status(a.Status))
	target = Normalize(target)
	if current == target {
		return decision, EquipmentPatch{}
	}

	a.Status = string(target)
	a.ValidationSteps = append(a.ValidationSteps, entity.ValidationStep{
		Role:        actor.Role,
		Status:      string(target),
		ValidatorID: actor.ID,
		Validator:   actor.Name,
		ValidatedAt: now,
	})
	a.CurrentStep = len(a.ValidationSteps)
	a.UpdatedAt = now

	return decision, DeriveEquipmentPatch(target, actor.ID, now)
}
