package rules

import (
	"testing"
	"time"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

func assignedEquipment() *entity.Equipment {
	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	return &entity.Equipment{
		ID:                  "eq-1",
		Status:              entity.EquipmentAssigned,
		AssignmentStatus:    entity.AssignmentConfirmed,
		AssignedUserID:      "u-1",
		AssignedBy:          "it-1",
		AssignedAt:          &at,
		ManagerValidationBy: "mgr-1",
		ManagerValidationAt: &at,
		ConfirmedBy:         "u-1",
		ConfirmedAt:         &at,
		HasHistory:          true,
	}
}

func TestInitiateReturn(t *testing.T) {
	now := time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)
	eq := assignedEquipment()

	d := InitiateReturn(eq, "u-1", now)
	if !d.Allowed {
		t.Fatalf("initiation refused: %q", d.Reason)
	}
	if eq.Status != entity.EquipmentPending || eq.AssignmentStatus != entity.AssignmentPendingReturn {
		t.Errorf("equipment not parked for return: status=%s assignment=%s", eq.Status, eq.AssignmentStatus)
	}
	if eq.ReturnRequestedBy != "u-1" || eq.ReturnRequestedAt == nil {
		t.Error("return request stamp missing")
	}
}

func TestInitiateReturn_RequiresAssignedEquipment(t *testing.T) {
	for _, status := range []string{
		entity.EquipmentAvailable, entity.EquipmentPending,
		entity.EquipmentInRepair, entity.EquipmentRetired,
	} {
		eq := &entity.Equipment{ID: "eq-1", Status: status}
		if d := InitiateReturn(eq, "u-1", time.Now()); d.Allowed {
			t.Errorf("status %s: initiation must be refused", status)
		}
	}
}

func TestInspectReturn_ConditionMapping(t *testing.T) {
	tests := []struct {
		condition  string
		wantStatus string
		wantRepair bool
	}{
		{entity.ConditionExcellent, entity.EquipmentAvailable, false},
		{entity.ConditionGood, entity.EquipmentAvailable, false},
		{entity.ConditionAverage, entity.EquipmentAvailable, false},
		{entity.ConditionBad, entity.EquipmentInRepair, true},
		{entity.ConditionDegraded, entity.EquipmentMaintenance, true},
		{entity.ConditionOutOfService, entity.EquipmentRetired, false},
	}

	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			now := time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC)
			eq := assignedEquipment()
			if d := InitiateReturn(eq, "u-1", now); !d.Allowed {
				t.Fatalf("initiation refused: %q", d.Reason)
			}

			d := InspectReturn(eq, tt.condition, now)
			if !d.Allowed {
				t.Fatalf("inspection refused: %q", d.Reason)
			}
			if eq.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", eq.Status, tt.wantStatus)
			}
			if (eq.RepairStartDate != nil) != tt.wantRepair {
				t.Errorf("repair start date set = %v, want %v", eq.RepairStartDate != nil, tt.wantRepair)
			}
			if eq.LastReturnCondition != tt.condition || eq.InspectedAt == nil {
				t.Error("inspection stamp missing")
			}
		})
	}
}

func TestInspectReturn_ClearsAssignmentTrail(t *testing.T) {
	now := time.Now()
	eq := assignedEquipment()
	InitiateReturn(eq, "u-1", now)

	if d := InspectReturn(eq, entity.ConditionGood, now); !d.Allowed {
		t.Fatalf("inspection refused: %q", d.Reason)
	}
	if eq.AssignedUserID != "" || eq.AssignedBy != "" || eq.AssignedAt != nil {
		t.Error("assignment fields must be cleared")
	}
	if eq.ManagerValidationBy != "" || eq.ConfirmedBy != "" {
		t.Error("validation fields must be cleared")
	}
	if eq.AssignmentStatus != entity.AssignmentNone {
		t.Errorf("assignment status = %s, want %s", eq.AssignmentStatus, entity.AssignmentNone)
	}
}

func TestInspectReturn_RequiresPendingReturn(t *testing.T) {
	eq := assignedEquipment()
	if d := InspectReturn(eq, entity.ConditionGood, time.Now()); d.Allowed {
		t.Error("inspection without an initiated return must be refused")
	}

	InitiateReturn(eq, "u-1", time.Now())
	if d := InspectReturn(eq, "Comme neuf", time.Now()); d.Allowed {
		t.Error("unknown condition must be refused")
	}
}
