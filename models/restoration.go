// ABOUTME: Restoration timeline records and run summaries
// ABOUTME: The timeline is the externally visible output of a simulation

package models

import "fmt"

// ConvergenceThreshold is the system outage fraction at or below which the grid counts as restored
const ConvergenceThreshold = 0.001

// Phase is the state of the simulation loop
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseDelaying
	PhaseRepairing
	PhaseConverged
	PhaseFailed
)

var phaseNames = []string{"initializing", "delaying", "repairing", "converged", "failed"}

func (p Phase) String() string { return enumName(phaseNames, int(p), "Phase") }

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// RestorationRecord is one simulated day
type RestorationRecord struct {
	Time           int     `json:"time"`
	Costs          float64 `json:"costs"`
	OutageFraction float64 `json:"total_outage_fr"`
	PowerFraction  float64 `json:"total_pwr_fr"`
	PopWithout     float64 `json:"pop_wo_pwr"`
	PopWith        float64 `json:"pop_w_pwr"`
}

// NewRestorationRecord derives the power and population columns from the outage fraction
func NewRestorationRecord(t int, costs, outage, totalPopulation float64) RestorationRecord {
	return RestorationRecord{
		Time:           t,
		Costs:          costs,
		OutageFraction: outage,
		PowerFraction:  1.0 - outage,
		PopWithout:     outage * totalPopulation,
		PopWith:        (1.0 - outage) * totalPopulation,
	}
}

// Timeline is the append-only sequence of daily records
type Timeline []RestorationRecord

// PowerFractions returns the power fraction column
func (t Timeline) PowerFractions() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.PowerFraction
	}
	return out
}

// TotalCost sums the daily spend
func (t Timeline) TotalCost() float64 {
	var sum float64
	for _, r := range t {
		sum += r.Costs
	}
	return sum
}

// At returns the record for day t, or the last record if the run ended earlier
func (t Timeline) At(day int) (RestorationRecord, bool) {
	if len(t) == 0 {
		return RestorationRecord{}, false
	}
	for _, r := range t {
		if r.Time == day {
			return r, true
		}
	}
	last := t[len(t)-1]
	if day > last.Time {
		return last, true
	}
	return RestorationRecord{}, false
}

// RunOptions identifies the strategy of one run
type RunOptions struct {
	Budget        float64       `json:"budget"`
	Delay         int           `json:"delay"`
	SortType      SortType      `json:"sort_type"`
	SortOrder     SortOrder     `json:"sort_order"`
	SortUpdate    bool          `json:"sort_update"`
	RestoreMethod RestoreMethod `json:"restore_method"`
}

// RunSummary describes a finished (or failed) run. TotalRepairCost is the initial
// backlog priced at unit cost in dollars, EstimatedRepairDays is that cost over the
// daily budget, and DaysToRestore is -1 if the grid was never restored.
type RunSummary struct {
	RunID               string     `json:"run_id"`
	Scenario            string     `json:"scenario"`
	Options             RunOptions `json:"options"`
	Locations           int        `json:"locations"`
	Population          float64    `json:"population"`
	InitialOutage       float64    `json:"initial_outage_fr"`
	FinalOutage         float64    `json:"final_outage_fr"`
	TotalRepairCost     float64    `json:"total_repair_cost"`
	EstimatedRepairDays float64    `json:"estimated_repair_days"`
	DaysSimulated       int        `json:"days_simulated"`
	DaysToRestore       int        `json:"days_to_restore"`
	TotalSpent          float64    `json:"total_spent"`
	Converged           bool       `json:"converged"`
	Phase               Phase      `json:"phase"`
}

// RunResult bundles the summary with its timeline
type RunResult struct {
	Summary  RunSummary `json:"summary"`
	Timeline Timeline   `json:"timeline"`
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return &ValidationError{Field: "phase", Reason: fmt.Sprintf("unknown value %q", string(b))}
}
