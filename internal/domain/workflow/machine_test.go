package workflow

import (
	"testing"
	"time"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

func testApproval() *entity.Approval {
	return &entity.Approval{
		ID:            "apr-1",
		RequesterID:   "u-req",
		BeneficiaryID: "u-ben",
		Status:        string(StatusWaitingManager),
	}
}

// gateActor returns an actor that satisfies the gate attached to the given
// current status.
func gateActor(current Status) entity.Actor {
	switch Normalize(current) {
	case StatusWaitingManager, StatusWaitingDotation:
		return entity.Actor{ID: "mgr-1", Role: entity.RoleManager, ManagesID: []string{"u-ben"}}
	case StatusWaitingIT:
		return entity.Actor{ID: "it-1", Role: entity.RoleAdmin}
	case StatusPendingDelivery:
		return entity.Actor{ID: "u-ben", Role: entity.RoleEmployee}
	default:
		return entity.Actor{ID: "any", Role: entity.RoleEmployee}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{"WaitingManager", StatusWaitingManager},
		{"Pending", StatusWaitingIT},
		{"Processing", StatusWaitingIT},
		{"WaitingUser", StatusPendingDelivery},
		{StatusCompleted, StatusCompleted},
		{StatusWaitingManager, StatusWaitingManager},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusWaitingManager, false},
		{StatusWaitingIT, false},
		{StatusWaitingDotation, false},
		{StatusPendingDelivery, false},
		{"Pending", false},
		{"WaitingUser", false},
		{StatusCompleted, true},
		{StatusRejected, true},
		{StatusCancelled, true},
		{StatusExpired, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// Every (current, target) pair outside the adjacency map must be refused;
// every pair inside it must be allowed for a gate-satisfying actor and
// refused otherwise.
func TestCanTransitionApprovalStatus_FullMatrix(t *testing.T) {
	all := []Status{
		StatusWaitingManager, StatusWaitingIT, StatusWaitingDotation,
		StatusPendingDelivery, StatusCompleted, StatusRejected,
		StatusCancelled, StatusExpired,
	}

	for _, current := range all {
		for _, target := range all {
			a := testApproval()
			a.Status = string(current)

			d := CanTransitionApprovalStatus(a, target, gateActor(current))

			sameStatus := current == target
			legal := sameStatus || isReachable(current, target)
			if d.Allowed != legal {
				t.Errorf("transition %s -> %s: allowed=%v, want %v (reason %q)",
					current, target, d.Allowed, legal, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Errorf("transition %s -> %s: refusal without reason", current, target)
			}
		}
	}
}

func TestCanTransitionApprovalStatus_SameStatusNoOp(t *testing.T) {
	a := testApproval()
	a.Status = string(StatusCompleted)

	// Even a role-less actor may "transition" to the current status.
	d := CanTransitionApprovalStatus(a, StatusCompleted, entity.Actor{ID: "x"})
	if !d.Allowed {
		t.Errorf("same-status transition must be a no-op success, got %q", d.Reason)
	}
}

func TestCanTransitionApprovalStatus_LegacyStatusesShareGates(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		target  Status
		actor   entity.Actor
		allowed bool
	}{
		{
			"legacy WaitingManager accepts the manager of record",
			"WaitingManager", StatusWaitingIT,
			entity.Actor{ID: "m", Role: entity.RoleManager, ManagesID: []string{"u-req"}},
			true,
		},
		{
			"legacy Pending requires Admin",
			"Pending", StatusWaitingDotation,
			entity.Actor{ID: "m", Role: entity.RoleManager},
			false,
		},
		{
			"legacy Processing accepts Admin",
			"Processing", StatusWaitingDotation,
			entity.Actor{ID: "it", Role: entity.RoleAdmin},
			true,
		},
		{
			"legacy WaitingUser requires the beneficiary",
			"WaitingUser", StatusCompleted,
			entity.Actor{ID: "someone-else", Role: entity.RoleAdmin},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testApproval()
			a.Status = string(tt.current)
			d := CanTransitionApprovalStatus(a, tt.target, tt.actor)
			if d.Allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v (reason %q)", d.Allowed, tt.allowed, d.Reason)
			}
		})
	}
}

func TestCanTransitionApprovalStatus_ManagerGate(t *testing.T) {
	a := testApproval()

	// Manager unrelated to requester and beneficiary.
	d := CanTransitionApprovalStatus(a, StatusWaitingIT,
		entity.Actor{ID: "stranger", Role: entity.RoleManager})
	if d.Allowed {
		t.Fatal("unrelated manager must be refused")
	}
	if d.Reason != "vous ne gérez pas ce collaborateur" {
		t.Errorf("unexpected reason %q", d.Reason)
	}

	// The beneficiary's manager of record passes.
	d = CanTransitionApprovalStatus(a, StatusWaitingIT,
		entity.Actor{ID: "mgr", Role: entity.RoleManager, ManagesID: []string{"u-ben"}})
	if !d.Allowed {
		t.Errorf("manager of record must be allowed, got %q", d.Reason)
	}
}

func TestCanTransitionApprovalStatus_SuperAdminBypassesGates(t *testing.T) {
	a := testApproval()
	a.Status = string(StatusPendingDelivery)

	d := CanTransitionApprovalStatus(a, StatusCompleted,
		entity.Actor{ID: "root", Role: entity.RoleSuperAdmin})
	if !d.Allowed {
		t.Errorf("SuperAdmin must bypass the user-confirmation gate, got %q", d.Reason)
	}
}

func TestApplyTransition_RecordsValidationStep(t *testing.T) {
	a := testApproval()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	actor := entity.Actor{ID: "mgr", Name: "Jean", Role: entity.RoleManager, ManagesID: []string{"u-ben"}}

	d, patch := ApplyTransition(a, StatusWaitingIT, actor, now)
	if !d.Allowed {
		t.Fatalf("transition refused: %q", d.Reason)
	}
	if a.Status != string(StatusWaitingIT) {
		t.Errorf("status = %s, want %s", a.Status, StatusWaitingIT)
	}
	if len(a.ValidationSteps) != 1 || a.CurrentStep != 1 {
		t.Errorf("validation step not recorded: steps=%d currentStep=%d", len(a.ValidationSteps), a.CurrentStep)
	}
	if patch.ManagerValidationBy == nil || *patch.ManagerValidationBy != "mgr" {
		t.Error("patch must stamp the manager validation actor")
	}
}

func TestApplyTransition_RefusalMutatesNothing(t *testing.T) {
	a := testApproval()

	d, patch := ApplyTransition(a, StatusCompleted, entity.Actor{ID: "x", Role: entity.RoleAdmin}, time.Now())
	if d.Allowed {
		t.Fatal("skipping straight to Completed must be refused")
	}
	if a.Status != string(StatusWaitingManager) || len(a.ValidationSteps) != 0 {
		t.Error("refused transition must not mutate the approval")
	}
	if !patch.IsZero() {
		t.Error("refused transition must yield an empty patch")
	}
}
