// ABOUTME: Repair priority ordering of locations
// ABOUTME: Stable sort on a cost or outage metric, ascending or descending

package services

import (
	"sort"

	"github.com/markalston/grid-restore/models"
)

// PriorityPolicy orders locations for repair attention
type PriorityPolicy struct {
	Type      models.SortType
	Direction models.SortOrder
	Costs     models.UnitCosts
}

// RepairCost is the cost of clearing a location's current backlog
func RepairCost(damaged models.Inventory, costs models.UnitCosts) float64 {
	var total float64
	for _, class := range models.RepairOrder {
		total += damaged[class] * costs[class]
	}
	return total
}

// Metric returns the sort key of location i
func (p PriorityPolicy) Metric(state *models.GridState, i int) float64 {
	d := state.Damage[i]
	switch p.Type {
	case models.SortByCostPerCapita:
		return SafeDiv(RepairCost(d.Damaged, p.Costs), state.Locations[i].Population)
	case models.SortByOutageMagnitude:
		return d.OutagePopulation
	default:
		return RepairCost(d.Damaged, p.Costs)
	}
}

// Order returns every location index in priority order. Ties keep input order.
func (p PriorityPolicy) Order(state *models.GridState) []int {
	n := len(state.Locations)
	keys := make([]float64, n)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		keys[i] = p.Metric(state, i)
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if p.Direction == models.Descending {
			return ka > kb
		}
		return ka < kb
	})
	return order
}
