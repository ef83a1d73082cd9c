// ABOUTME: Day-by-day restoration simulation driving repair until the grid is restored
// ABOUTME: Applies the mobilization delay and guards against runs that never converge

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/markalston/grid-restore/models"
)

const (
	// DefaultMaxDays caps the number of simulated days
	DefaultMaxDays = 3650
	// DefaultStagnationDays is how many consecutive repair days without backlog reduction fail a run
	DefaultStagnationDays = 30
)

// SimulationOptions configures one restoration run
type SimulationOptions struct {
	Budget        float64 // dollars per day
	Delay         int     // days before crews start repairing
	SortType      models.SortType
	SortOrder     models.SortOrder
	SortUpdate    bool
	RestoreMethod models.RestoreMethod
	UnitCosts     models.UnitCosts

	AllOrNothing  bool
	PartialCredit bool
	SinglePath    bool
	RegionalPath  bool

	MaxDays        int
	StagnationDays int // 0 disables the stagnation guard
	Workers        int
}

// DefaultSimulationOptions mirrors the reference Puerto Rico runs
func DefaultSimulationOptions() SimulationOptions {
	return SimulationOptions{
		Budget:         12.27e6,
		Delay:          7,
		SortType:       models.SortByCostPerCapita,
		SortOrder:      models.Ascending,
		RestoreMethod:  models.NodeFirst,
		UnitCosts:      models.DefaultUnitCosts(),
		AllOrNothing:   true,
		SinglePath:     true,
		MaxDays:        DefaultMaxDays,
		StagnationDays: DefaultStagnationDays,
	}
}

// RunOptions returns the strategy fields recorded with a run
func (o SimulationOptions) RunOptions() models.RunOptions {
	return models.RunOptions{
		Budget:        o.Budget,
		Delay:         o.Delay,
		SortType:      o.SortType,
		SortOrder:     o.SortOrder,
		SortUpdate:    o.SortUpdate,
		RestoreMethod: o.RestoreMethod,
	}
}

// Validate checks the numeric options
func (o SimulationOptions) Validate() error {
	var errs []error
	if !(o.Budget > 0) || math.IsInf(o.Budget, 0) {
		errs = append(errs, &models.ValidationError{Field: "budget", Reason: fmt.Sprintf("must be a positive finite amount, got %v", o.Budget)})
	}
	if o.Delay < 0 {
		errs = append(errs, &models.ValidationError{Field: "delay", Reason: fmt.Sprintf("must not be negative, got %d", o.Delay)})
	}
	for _, class := range models.RepairOrder {
		c := o.UnitCosts[class]
		if !(c > 0) || math.IsInf(c, 0) {
			errs = append(errs, &models.ValidationError{Field: "unit_costs." + class.String(), Reason: fmt.Sprintf("must be a positive finite amount, got %v", c)})
		}
	}
	if o.MaxDays <= 0 {
		errs = append(errs, &models.ValidationError{Field: "max_days", Reason: fmt.Sprintf("must be positive, got %d", o.MaxDays)})
	}
	if o.StagnationDays < 0 {
		errs = append(errs, &models.ValidationError{Field: "stagnation_days", Reason: fmt.Sprintf("must not be negative, got %d", o.StagnationDays)})
	}
	return errors.Join(errs...)
}

// Simulator owns the components of one restoration run
type Simulator struct {
	opts       SimulationOptions
	fragility  *FragilityModel
	aggregator *FaultAggregator
	policy     PriorityPolicy
	logger     *slog.Logger
}

// NewSimulator wires the fragility model, fault aggregator and priority policy for the options
func NewSimulator(opts SimulationOptions, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	fragility := NewFragilityModel(opts.AllOrNothing, logger)
	fragility.Workers = opts.Workers

	return &Simulator{
		opts:      opts,
		fragility: fragility,
		aggregator: &FaultAggregator{
			PartialCredit: opts.PartialCredit,
			SinglePath:    opts.SinglePath,
			RegionalPath:  opts.RegionalPath,
		},
		policy: PriorityPolicy{
			Type:      opts.SortType,
			Direction: opts.SortOrder,
			Costs:     opts.UnitCosts,
		},
		logger: logger,
	}
}

// Options returns the run options
func (s *Simulator) Options() SimulationOptions {
	return s.opts
}

// Initialize validates the locations and builds the post-hurricane state
func (s *Simulator) Initialize(ctx context.Context, locations []models.Location) (*models.GridState, error) {
	if err := ValidateLocations(locations); err != nil {
		return nil, err
	}
	state := models.NewGridState(locations)
	if err := s.fragility.AssessDamage(ctx, state); err != nil {
		return nil, err
	}
	s.aggregator.Refresh(state)
	return state, nil
}

// Simulate initializes the state from the locations and runs it to convergence
func (s *Simulator) Simulate(ctx context.Context, scenario string, locations []models.Location) (*models.RunResult, error) {
	state, err := s.Initialize(ctx, locations)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, scenario, state)
}

// Run repairs the state day by day until the system outage is at or below the
// convergence threshold. The state is mutated. On NonConvergenceError or context
// cancellation the partial result is returned alongside the error.
func (s *Simulator) Run(ctx context.Context, scenario string, state *models.GridState) (*models.RunResult, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}

	scheduler := NewScheduler(s.opts.Budget, s.opts.UnitCosts, s.opts.RestoreMethod, s.logger)
	population := state.TotalPopulation()
	outage := s.aggregator.Refresh(state)

	var totalRepairCost float64
	for _, d := range state.Damage {
		totalRepairCost += RepairCost(d.Damaged, s.opts.UnitCosts)
	}

	result := &models.RunResult{
		Summary: models.RunSummary{
			RunID:               uuid.NewString(),
			Scenario:            scenario,
			Options:             s.opts.RunOptions(),
			Locations:           len(state.Locations),
			Population:          population,
			InitialOutage:       outage,
			TotalRepairCost:     totalRepairCost,
			EstimatedRepairDays: SafeDiv(totalRepairCost, s.opts.Budget),
			DaysToRestore:       -1,
			Phase:               models.PhaseInitializing,
		},
		Timeline: models.Timeline{models.NewRestorationRecord(0, 0, outage, population)},
	}

	log := s.logger.With("run_id", result.Summary.RunID, "scenario", scenario)
	log.Info("Restoration started",
		"locations", len(state.Locations),
		"initial_outage", outage,
		"repair_cost", totalRepairCost,
		"method", s.opts.RestoreMethod.String(),
		"sort", s.opts.SortType.String(),
	)

	order := s.policy.Order(state)
	backlog := state.Backlog()
	stagnant := 0
	t := 0

	for outage > models.ConvergenceThreshold {
		if err := ctx.Err(); err != nil {
			return s.finish(result, state, models.PhaseFailed, t), err
		}
		if t >= s.opts.MaxDays {
			s.finish(result, state, models.PhaseFailed, t)
			return result, &models.NonConvergenceError{Days: t, OutageFraction: outage, Reason: fmt.Sprintf("reached the %d day limit", s.opts.MaxDays)}
		}

		t++
		var cost float64
		if t <= s.opts.Delay {
			result.Summary.Phase = models.PhaseDelaying
		} else {
			result.Summary.Phase = models.PhaseRepairing
			cost = scheduler.Timestep(state, order, t)
			outage = s.aggregator.Refresh(state)

			remaining := state.Backlog()
			if remaining < backlog {
				stagnant = 0
			} else {
				stagnant++
			}
			backlog = remaining

			if s.opts.SortUpdate {
				order = s.policy.Order(state)
			}
		}

		result.Timeline = append(result.Timeline, models.NewRestorationRecord(t, cost, outage, population))
		log.Debug("Day complete", "day", t, "phase", result.Summary.Phase.String(), "cost", cost, "outage", outage, "backlog", backlog)

		if s.opts.StagnationDays > 0 && stagnant >= s.opts.StagnationDays && outage > models.ConvergenceThreshold {
			s.finish(result, state, models.PhaseFailed, t)
			return result, &models.NonConvergenceError{Days: t, OutageFraction: outage, Reason: fmt.Sprintf("no backlog reduction for %d consecutive days", stagnant)}
		}
	}

	s.finish(result, state, models.PhaseConverged, t)
	result.Summary.DaysToRestore = t
	log.Info("Restoration complete", "days", t, "spent", result.Summary.TotalSpent)
	return result, nil
}

func (s *Simulator) finish(result *models.RunResult, state *models.GridState, phase models.Phase, days int) *models.RunResult {
	result.Summary.Phase = phase
	result.Summary.Converged = phase == models.PhaseConverged
	result.Summary.DaysSimulated = days
	result.Summary.FinalOutage = state.OutageFraction
	result.Summary.TotalSpent = result.Timeline.TotalCost()
	if !result.Summary.Converged {
		s.logger.Warn("Restoration stopped", "run_id", result.Summary.RunID, "phase", phase.String(), "days", days, "outage", state.OutageFraction)
	}
	return result
}
