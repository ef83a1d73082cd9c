// ABOUTME: Budget-constrained greedy repair of damaged assets for one day
// ABOUTME: Node-first, class-first and hybrid allocation strategies

package services

import (
	"log/slog"
	"math"

	"github.com/markalston/grid-restore/models"
)

// Scheduler spends a fixed daily budget on the repair backlog
type Scheduler struct {
	Budget float64
	Costs  models.UnitCosts
	Method models.RestoreMethod

	logger *slog.Logger
	day    int
}

// NewScheduler creates a scheduler
func NewScheduler(budget float64, costs models.UnitCosts, method models.RestoreMethod, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Budget: budget,
		Costs:  costs,
		Method: method,
		logger: logger,
	}
}

// Repair spends what is left of the day's budget on one class at one location and
// returns the updated cumulative spend. Spend never exceeds the budget.
func (s *Scheduler) Repair(state *models.GridState, i int, class models.AssetClass, spent float64) float64 {
	d := &state.Damage[i]
	before := d.Damaged[class]
	if spent >= s.Budget || before <= 0 {
		return spent
	}

	unit := s.Costs[class]
	remaining := s.Budget - spent
	repairable := remaining / unit

	if repairable < before {
		d.Damaged[class] = before - repairable
		spent = s.Budget
	} else {
		d.Damaged[class] = 0
		spent = math.Min(spent+before*unit, s.Budget)
	}

	s.logger.Debug("Repair",
		"day", s.day,
		"location", state.Locations[i].Name,
		"class", class.String(),
		"repairable", repairable,
		"before", before,
		"after", d.Damaged[class],
		"spent", spent,
	)
	return spent
}

// Timestep runs one day of repair in priority order and returns the day's spend
func (s *Scheduler) Timestep(state *models.GridState, order []int, day int) float64 {
	s.day = day
	var spent float64

	switch s.Method {
	case models.ClassFirst:
		spent = s.classFirst(state, order, models.RepairOrder[:], spent)
	case models.Hybrid:
		spent = s.nodeFirst(state, order, models.NetworkClasses, spent)
		spent = s.nodeFirst(state, order, models.GenerationClasses, spent)
	default:
		spent = s.nodeFirst(state, order, models.RepairOrder[:], spent)
	}
	return spent
}

// nodeFirst visits each location in turn and repairs its classes in order
func (s *Scheduler) nodeFirst(state *models.GridState, order []int, classes []models.AssetClass, spent float64) float64 {
	for _, i := range order {
		for _, class := range classes {
			if spent >= s.Budget {
				return spent
			}
			spent = s.Repair(state, i, class, spent)
		}
	}
	return spent
}

// classFirst repairs one class everywhere before moving to the next class
func (s *Scheduler) classFirst(state *models.GridState, order []int, classes []models.AssetClass, spent float64) float64 {
	for _, class := range classes {
		for _, i := range order {
			if spent >= s.Budget {
				return spent
			}
			spent = s.Repair(state, i, class, spent)
		}
	}
	return spent
}
