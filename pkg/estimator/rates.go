// Package estimator holds the pure computation core: rate resolution,
// complexity-based effort suggestions, and hierarchy rollups. Nothing in
// this package touches the database.
package estimator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store"
)

// RateTable indexes an estimate's project-scoped rate overrides by role
// level id.
type RateTable map[uuid.UUID]model.RateOverride

func NewRateTable(overrides []model.RateOverride) RateTable {
	table := make(RateTable, len(overrides))
	for _, override := range overrides {
		table[override.RoleLevelID] = override
	}
	return table
}

// ResolveRate returns the effective bill and cost rate for an assignment.
// Each rate resolves independently, highest precedence first: the
// assignment's own override, then the project rate override for the role,
// then the role level default. The assignment must carry its role level.
func ResolveRate(assignment *model.Assignment, rates RateTable) (float64, float64, error) {
	if assignment.RoleLevel == nil {
		return 0, 0, fmt.Errorf("role level %s: %w", assignment.RoleLevelID, store.ErrRecordNotFound)
	}

	bill := assignment.RoleLevel.DefaultBillRate
	cost := assignment.RoleLevel.DefaultCostRate

	if override, ok := rates[assignment.RoleLevelID]; ok {
		bill = override.BillRate
		cost = override.CostRate
	}

	if assignment.BillRateOverride != nil {
		bill = *assignment.BillRateOverride
	}
	if assignment.CostRateOverride != nil {
		cost = *assignment.CostRateOverride
	}

	return bill, cost, nil
}
