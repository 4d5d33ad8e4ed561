package workflow

import (
	"testing"
	"time"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

func TestDeriveEquipmentPatch_Completed(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	eq := &entity.Equipment{
		ID:             "eq-1",
		Status:         entity.EquipmentPending,
		AssignedUserID: "u-ben",
	}

	p := DeriveEquipmentPatch(StatusCompleted, "u-ben", now)
	p.Apply(eq)

	if eq.Status != entity.EquipmentAssigned {
		t.Errorf("status = %s, want %s", eq.Status, entity.EquipmentAssigned)
	}
	if eq.AssignmentStatus != entity.AssignmentConfirmed {
		t.Errorf("assignment status = %s, want %s", eq.AssignmentStatus, entity.AssignmentConfirmed)
	}
	if eq.ConfirmedBy != "u-ben" || eq.ConfirmedAt == nil {
		t.Error("confirmation stamp missing")
	}
	if !eq.HasHistory {
		t.Error("completing an assignment must mark the equipment as having history")
	}
	if eq.AssignedUserID != "u-ben" {
		t.Error("confirmation must not clear the assigned user")
	}
}

func TestDeriveEquipmentPatch_RejectedReleasesEquipment(t *testing.T) {
	now := time.Now()
	eq := &entity.Equipment{
		ID:               "eq-1",
		Status:           entity.EquipmentPending,
		AssignmentStatus: string(StatusWaitingIT),
		AssignedUserID:   "u-ben",
	}

	for _, target := range []Status{StatusRejected, StatusCancelled} {
		e := *eq
		DeriveEquipmentPatch(target, "mgr", now).Apply(&e)

		if e.Status != entity.EquipmentAvailable {
			t.Errorf("%s: status = %s, want %s", target, e.Status, entity.EquipmentAvailable)
		}
		if e.AssignmentStatus != entity.AssignmentNone {
			t.Errorf("%s: assignment status = %s, want %s", target, e.AssignmentStatus, entity.AssignmentNone)
		}
		if e.AssignedUserID != "" {
			t.Errorf("%s: assigned user must be cleared", target)
		}
	}
}

func TestDeriveEquipmentPatch_Intermediate(t *testing.T) {
	now := time.Now()

	p := DeriveEquipmentPatch(StatusWaitingIT, "mgr", now)
	if p.ManagerValidationBy == nil || *p.ManagerValidationBy != "mgr" {
		t.Error("manager approval must stamp the validator")
	}
	if p.Status == nil || *p.Status != entity.EquipmentPending {
		t.Error("manager approval must reserve the equipment")
	}

	p = DeriveEquipmentPatch(StatusPendingDelivery, "it", now)
	if p.AssignedBy == nil || *p.AssignedBy != "it" || p.AssignedAt == nil {
		t.Error("IT assignment must stamp who assigned and when")
	}

	if !DeriveEquipmentPatch(StatusWaitingManager, "x", now).IsZero() {
		t.Error("the initial status must not touch the equipment")
	}
	if !DeriveEquipmentPatch(StatusExpired, "x", now).IsZero() {
		t.Error("expiry is handled elsewhere and must not patch here")
	}
}
