// ABOUTME: Fault aggregation from per-class failure fractions to location and system outage
// ABOUTME: Combines network and generation faults with a probabilistic OR

package services

import (
	"math"

	"github.com/markalston/grid-restore/models"
	"gonum.org/v1/gonum/floats"
)

// OrFault combines two independent failure probabilities where either alone causes an outage.
// A certain failure on either side saturates to exactly 1.
func OrFault(a, b float64) float64 {
	if a >= 1 || b >= 1 {
		return 1
	}
	return a + b - a*b
}

// AndFault combines two independent failure probabilities where both are needed for an outage
func AndFault(a, b float64) float64 {
	return a * b
}

// SafeDiv returns num/den, or 0 when the quotient is undefined or not finite
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// FaultAggregator turns damaged quantities into outage fractions
type FaultAggregator struct {
	// PartialCredit uses raw damaged quantities for failure fractions. When false a
	// partially repaired unit still counts as failed (ceiling of the damaged quantity).
	PartialCredit bool
	// SinglePath forces a location's transmission fraction to 1 on any transmission damage.
	SinglePath bool
	// RegionalPath forces transmission to 1 for every distributed location of a region
	// when any of them has transmission damage.
	RegionalPath bool
}

// NewFaultAggregator returns the default aggregation: ceiling fractions, single-path transmission
func NewFaultAggregator() *FaultAggregator {
	return &FaultAggregator{SinglePath: true}
}

// Fractions computes the failure fraction of every class at one location
func (a *FaultAggregator) Fractions(loc models.Location, damaged models.Inventory) models.Inventory {
	var fr models.Inventory
	for _, class := range models.RepairOrder {
		d := math.Max(damaged[class], 0)
		if !a.PartialCredit {
			d = math.Ceil(d)
		}
		fr[class] = clamp01(SafeDiv(d, loc.Inventory[class]))
	}
	if a.SinglePath && fr[models.Transmission] > 0 {
		fr[models.Transmission] = 1.0
	}
	return fr
}

// generationFault is the capacity-weighted fraction of lost solar and wind generation
func generationFault(loc models.Location, fr models.Inventory) float64 {
	return fr[models.Solar]*loc.SolarMW + fr[models.Wind]*loc.WindMW
}

// NetworkFault combines transmission, substation and distribution faults
func NetworkFault(fr models.Inventory) float64 {
	return OrFault(OrFault(fr[models.Transmission], fr[models.Substation]), fr[models.Distribution])
}

// Refresh recomputes fractions, per-location outage and the system outage in place.
// It returns the system outage fraction.
func (a *FaultAggregator) Refresh(state *models.GridState) float64 {
	for i, loc := range state.Locations {
		state.Damage[i].Fraction = a.Fractions(loc, state.Damage[i].Damaged)
	}

	regions := regionIndex(state.Locations)

	if a.RegionalPath {
		for _, r := range regions {
			faulted := false
			for _, i := range r.distributed {
				if state.Damage[i].Fraction[models.Transmission] > 0 {
					faulted = true
					break
				}
			}
			if faulted {
				for _, i := range r.distributed {
					state.Damage[i].Fraction[models.Transmission] = 1.0
				}
			}
		}
	}

	for _, r := range regions {
		central := a.centralContribution(state, r.central)

		for _, i := range r.distributed {
			loc := state.Locations[i]
			d := &state.Damage[i]

			local := SafeDiv(generationFault(loc, d.Fraction), loc.TotalMW)
			power := OrFault(central, local)

			d.OutageFraction = clamp01(OrFault(NetworkFault(d.Fraction), power))
			d.OutagePopulation = d.OutageFraction * loc.Population
		}

		// Centralized nodes feed the regional contribution but are not reported as outages
		for _, i := range r.central {
			state.Damage[i].OutageFraction = 0
			state.Damage[i].OutagePopulation = 0
		}
	}

	state.OutageFraction = SystemOutage(state)
	return state.OutageFraction
}

// centralContribution is the fraction of a region's centralized capacity that is lost
func (a *FaultAggregator) centralContribution(state *models.GridState, central []int) float64 {
	var lost, capacity float64
	for _, i := range central {
		loc := state.Locations[i]
		lost += generationFault(loc, state.Damage[i].Fraction)
		capacity += loc.TotalMW
	}
	return clamp01(SafeDiv(lost, capacity))
}

// SystemOutage is the population-weighted outage over distributed locations
func SystemOutage(state *models.GridState) float64 {
	outage := make([]float64, 0, len(state.Locations))
	population := make([]float64, 0, len(state.Locations))
	for i, loc := range state.Locations {
		if loc.Central {
			continue
		}
		outage = append(outage, state.Damage[i].OutageFraction)
		population = append(population, loc.Population)
	}
	if len(population) == 0 {
		return 0
	}
	return clamp01(SafeDiv(floats.Dot(outage, population), floats.Sum(population)))
}

type region struct {
	name        string
	central     []int
	distributed []int
}

// regionIndex groups location indices by region, preserving first-seen region order
func regionIndex(locations []models.Location) []*region {
	var ordered []*region
	byName := make(map[string]*region)
	for i, loc := range locations {
		r, ok := byName[loc.Region]
		if !ok {
			r = &region{name: loc.Region}
			byName[loc.Region] = r
			ordered = append(ordered, r)
		}
		if loc.Central {
			r.central = append(r.central, i)
		} else {
			r.distributed = append(r.distributed, i)
		}
	}
	return ordered
}
