// ABOUTME: Mutable per-location damage state and the grid-wide simulation state
// ABOUTME: Mutated in place by repair and refreshed by fault aggregation

package models

// DamageState is the evolving damage of one location
type DamageState struct {
	Damaged          Inventory `json:"damaged"`
	Fraction         Inventory `json:"fraction"`
	OutageFraction   float64   `json:"outage_fraction"`
	OutagePopulation float64   `json:"outage_population"`
}

// GridState pairs every location with its damage state. Damage[i] belongs to Locations[i].
type GridState struct {
	Locations      []Location
	Damage         []DamageState
	OutageFraction float64 // population-weighted system outage
}

// NewGridState allocates an undamaged state for the given locations
func NewGridState(locations []Location) *GridState {
	return &GridState{
		Locations: locations,
		Damage:    make([]DamageState, len(locations)),
	}
}

// Clone returns a copy whose damage can be mutated independently.
// Locations are shared since they are never modified.
func (s *GridState) Clone() *GridState {
	damage := make([]DamageState, len(s.Damage))
	copy(damage, s.Damage)
	return &GridState{
		Locations:      s.Locations,
		Damage:         damage,
		OutageFraction: s.OutageFraction,
	}
}

// Backlog sums the outstanding damaged quantity over all locations and classes
func (s *GridState) Backlog() float64 {
	var total float64
	for _, d := range s.Damage {
		total += d.Damaged.Total()
	}
	return total
}

// TotalPopulation sums the population of non-centralized locations
func (s *GridState) TotalPopulation() float64 {
	var total float64
	for _, loc := range s.Locations {
		if !loc.Central {
			total += loc.Population
		}
	}
	return total
}
