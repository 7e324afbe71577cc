package estimator

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store"
)

func floatPtr(v float64) *float64 {
	return &v
}

func testRole() *model.RoleLevel {
	return &model.RoleLevel{
		ID:              uuid.New(),
		Name:            "Technical Consultant",
		Level:           "Senior",
		DefaultBillRate: 300,
		DefaultCostRate: 150,
	}
}

func TestResolveRateDefaults(t *testing.T) {
	role := testRole()
	assignment := &model.Assignment{RoleLevelID: role.ID, RoleLevel: role, Hours: 10}

	bill, cost, err := ResolveRate(assignment, nil)
	if err != nil {
		t.Fatalf("ResolveRate error: %v", err)
	}
	if bill != 300 || cost != 150 {
		t.Fatalf("expected default rates 300/150, got %v/%v", bill, cost)
	}
}

func TestResolveRateProjectOverride(t *testing.T) {
	role := testRole()
	assignment := &model.Assignment{RoleLevelID: role.ID, RoleLevel: role, Hours: 10}
	rates := NewRateTable([]model.RateOverride{
		{RoleLevelID: role.ID, BillRate: 250, CostRate: 120},
	})

	bill, cost, err := ResolveRate(assignment, rates)
	if err != nil {
		t.Fatalf("ResolveRate error: %v", err)
	}
	if bill != 250 || cost != 120 {
		t.Fatalf("expected project override rates 250/120, got %v/%v", bill, cost)
	}
}

// An assignment bill override wins while the untouched cost rate still
// resolves through the project override, not the role default.
func TestResolveRatePrecedenceMixed(t *testing.T) {
	role := testRole()
	assignment := &model.Assignment{
		RoleLevelID:      role.ID,
		RoleLevel:        role,
		Hours:            10,
		BillRateOverride: floatPtr(275),
	}
	rates := NewRateTable([]model.RateOverride{
		{RoleLevelID: role.ID, BillRate: 250, CostRate: 120},
	})

	bill, cost, err := ResolveRate(assignment, rates)
	if err != nil {
		t.Fatalf("ResolveRate error: %v", err)
	}
	if bill != 275 {
		t.Fatalf("expected assignment bill override 275, got %v", bill)
	}
	if cost != 120 {
		t.Fatalf("expected project override cost 120, got %v", cost)
	}
}

func TestResolveRateAssignmentOverridesBoth(t *testing.T) {
	role := testRole()
	assignment := &model.Assignment{
		RoleLevelID:      role.ID,
		RoleLevel:        role,
		BillRateOverride: floatPtr(500),
		CostRateOverride: floatPtr(200),
	}

	bill, cost, err := ResolveRate(assignment, nil)
	if err != nil {
		t.Fatalf("ResolveRate error: %v", err)
	}
	if bill != 500 || cost != 200 {
		t.Fatalf("expected assignment overrides 500/200, got %v/%v", bill, cost)
	}
}

func TestResolveRateMissingRoleLevel(t *testing.T) {
	assignment := &model.Assignment{RoleLevelID: uuid.New(), Hours: 10}

	_, _, err := ResolveRate(assignment, nil)
	if !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
