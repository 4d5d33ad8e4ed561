package rules

import (
	"testing"

	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

func TestCanDeleteEquipment(t *testing.T) {
	tests := []struct {
		name    string
		eq      entity.Equipment
		allowed bool
	}{
		{"available without history", entity.Equipment{Status: entity.EquipmentAvailable}, true},
		{"assigned", entity.Equipment{Status: entity.EquipmentAssigned}, false},
		{"assigned even without history", entity.Equipment{Status: entity.EquipmentAssigned, HasHistory: false}, false},
		{"assigned with history", entity.Equipment{Status: entity.EquipmentAssigned, HasHistory: true}, false},
		{"pending assignment", entity.Equipment{Status: entity.EquipmentPending}, false},
		{"available but with history", entity.Equipment{Status: entity.EquipmentAvailable, HasHistory: true}, false},
		{"retired without history", entity.Equipment{Status: entity.EquipmentRetired}, true},
		{"in repair with history", entity.Equipment{Status: entity.EquipmentInRepair, HasHistory: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanDeleteEquipment(&tt.eq)
			if d.Allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v (reason %q)", d.Allowed, tt.allowed, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Error("refusal without reason")
			}
		})
	}
}

func TestCanUpdateUser(t *testing.T) {
	active := true
	inactive := false
	newManager := "mgr-2"

	tests := []struct {
		name    string
		user    entity.User
		update  UserUpdate
		ctx     UserContext
		allowed bool
	}{
		{
			"deactivation with active approvals",
			entity.User{ID: "u1", IsActive: true},
			UserUpdate{IsActive: &inactive},
			UserContext{ActiveApprovals: 2},
			false,
		},
		{
			"deactivation without approvals",
			entity.User{ID: "u1", IsActive: true},
			UserUpdate{IsActive: &inactive},
			UserContext{},
			true,
		},
		{
			"reactivation is always fine",
			entity.User{ID: "u1", IsActive: false},
			UserUpdate{IsActive: &active},
			UserContext{ActiveApprovals: 3},
			true,
		},
		{
			"manager change during pending validation",
			entity.User{ID: "u1", IsActive: true, ManagerID: "mgr-1"},
			UserUpdate{ManagerID: &newManager},
			UserContext{PendingManagerValidation: true},
			false,
		},
		{
			"manager change while idle",
			entity.User{ID: "u1", IsActive: true, ManagerID: "mgr-1"},
			UserUpdate{ManagerID: &newManager},
			UserContext{},
			true,
		},
		{
			"unchanged manager during pending validation",
			entity.User{ID: "u1", IsActive: true, ManagerID: "mgr-2"},
			UserUpdate{ManagerID: &newManager},
			UserContext{PendingManagerValidation: true},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanUpdateUser(&tt.user, tt.update, tt.ctx)
			if d.Allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v (reason %q)", d.Allowed, tt.allowed, d.Reason)
			}
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	u := entity.User{ID: "u1", IsActive: true}

	if d := CanDeleteUser(&u, UserContext{AssignedEquipment: 1}); d.Allowed {
		t.Error("user with assigned equipment must not be deletable")
	}
	if d := CanDeleteUser(&u, UserContext{ActiveApprovals: 1}); d.Allowed {
		t.Error("user with active approvals must not be deletable")
	}
	if d := CanDeleteUser(&u, UserContext{}); !d.Allowed {
		t.Errorf("idle user must be deletable, got %q", d.Reason)
	}
}
