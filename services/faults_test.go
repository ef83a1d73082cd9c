// ABOUTME: Tests for fault algebra and outage aggregation
// ABOUTME: Covers centralized generation, regional paths and zero-capacity edge cases

package services

import (
	"math"
	"testing"

	"github.com/markalston/grid-restore/models"
	"github.com/stretchr/testify/assert"
)

func TestOrFault(t *testing.T) {
	assert.Equal(t, 0.4, OrFault(0, 0.4))
	assert.Equal(t, 1.0, OrFault(1, 0.4))
	assert.InDelta(t, 0.75, OrFault(0.5, 0.5), 1e-12)
	assert.Equal(t, OrFault(0.2, 0.7), OrFault(0.7, 0.2))
	assert.Equal(t, 0.0, OrFault(0, 0))
}

func TestOrFaultSaturatesExactly(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.4, 0.999, 1} {
		assert.Equal(t, 1.0, OrFault(1, p), "OrFault(1, %v)", p)
		assert.Equal(t, 1.0, OrFault(p, 1), "OrFault(%v, 1)", p)
		assert.Equal(t, p, OrFault(0, p), "OrFault(0, %v)", p)
	}
}

func TestRefreshForcedTransmissionIsFullOutage(t *testing.T) {
	state := models.NewGridState([]models.Location{
		{Name: "a", Region: "r", Population: 1000, Inventory: models.Inventory{1, 10, 0, 0, 0}},
	})
	state.Damage[0].Damaged = models.Inventory{1, 4, 0, 0, 0}

	outage := NewFaultAggregator().Refresh(state)

	assert.Equal(t, 1.0, state.Damage[0].OutageFraction)
	assert.Equal(t, 1000.0, state.Damage[0].OutagePopulation)
	assert.Equal(t, 1.0, outage)
}

func TestAndFault(t *testing.T) {
	assert.InDelta(t, 0.25, AndFault(0.5, 0.5), 1e-12)
	assert.Equal(t, 0.0, AndFault(0, 1))
}

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     float64
	}{
		{"ordinary", 3, 4, 0.75},
		{"zero denominator", 1, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"infinite numerator", math.Inf(1), 2, 0},
		{"NaN numerator", math.NaN(), 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeDiv(tt.num, tt.den))
		})
	}
}

func TestFractions(t *testing.T) {
	loc := models.Location{Inventory: models.Inventory{10, 4, 10, 0, 2}}
	damaged := models.Inventory{0, 1.5, 2.3, 0, 0.2}

	ceil := &FaultAggregator{}
	fr := ceil.Fractions(loc, damaged)
	assert.InDelta(t, 0.5, fr[models.Substation], 1e-12)
	assert.InDelta(t, 0.3, fr[models.Distribution], 1e-12)
	assert.InDelta(t, 0.5, fr[models.Wind], 1e-12)
	assert.Equal(t, 0.0, fr[models.Solar], "zero inventory has no failure fraction")

	partial := &FaultAggregator{PartialCredit: true}
	fr = partial.Fractions(loc, damaged)
	assert.InDelta(t, 0.375, fr[models.Substation], 1e-12)
	assert.InDelta(t, 0.23, fr[models.Distribution], 1e-12)
	assert.InDelta(t, 0.1, fr[models.Wind], 1e-12)
}

func TestFractionsSinglePath(t *testing.T) {
	loc := models.Location{Inventory: models.Inventory{10, 0, 0, 0, 0}}
	damaged := models.Inventory{0.5, 0, 0, 0, 0}

	assert.Equal(t, 1.0, NewFaultAggregator().Fractions(loc, damaged)[models.Transmission])
	assert.InDelta(t, 0.1, (&FaultAggregator{}).Fractions(loc, damaged)[models.Transmission], 1e-12)
	assert.Equal(t, 0.0, NewFaultAggregator().Fractions(loc, models.Inventory{})[models.Transmission])
}

func TestFractionsAreBounded(t *testing.T) {
	loc := models.Location{Inventory: models.Inventory{1, 1, 1, 1, 1}}
	fr := (&FaultAggregator{}).Fractions(loc, models.Inventory{5, -1, 1, 0, 2})
	for _, class := range models.RepairOrder {
		assert.GreaterOrEqual(t, fr[class], 0.0)
		assert.LessOrEqual(t, fr[class], 1.0)
	}
}

func regionState() *models.GridState {
	locations := []models.Location{
		{Name: "plant", Region: "east", Central: true, Inventory: models.Inventory{0, 0, 0, 2, 0}, SolarMW: 60, WindMW: 40, TotalMW: 100},
		{Name: "a", Region: "east", Population: 100, Inventory: models.Inventory{0, 0, 10, 0, 0}},
		{Name: "b", Region: "east", Population: 300, Inventory: models.Inventory{0, 0, 10, 0, 0}},
		{Name: "c", Region: "west", Population: 100, Inventory: models.Inventory{0, 0, 0, 1, 0}, SolarMW: 5, TotalMW: 20},
	}
	state := models.NewGridState(locations)
	state.Damage[0].Damaged[models.Solar] = 1
	state.Damage[2].Damaged[models.Distribution] = 5
	state.Damage[3].Damaged[models.Solar] = 1
	return state
}

func TestRefreshCombinesCentralAndDistributed(t *testing.T) {
	state := regionState()
	outage := NewFaultAggregator().Refresh(state)

	// Central: half the solar farms lost, 30 of 100 MW
	assert.InDelta(t, 0.3, state.Damage[1].OutageFraction, 1e-12)
	assert.InDelta(t, 30.0, state.Damage[1].OutagePopulation, 1e-9)
	// Network 0.5 OR generation 0.3
	assert.InDelta(t, 0.65, state.Damage[2].OutageFraction, 1e-12)
	// West has no central plant; 5 of 20 MW lost locally
	assert.InDelta(t, 0.25, state.Damage[3].OutageFraction, 1e-12)

	assert.Equal(t, 0.0, state.Damage[0].OutageFraction, "central nodes are not reported")
	assert.Equal(t, 0.0, state.Damage[0].OutagePopulation)

	want := (0.3*100 + 0.65*300 + 0.25*100) / 500
	assert.InDelta(t, want, outage, 1e-12)
	assert.Equal(t, outage, state.OutageFraction)
}

func TestRefreshRegionalPath(t *testing.T) {
	locations := []models.Location{
		{Name: "a", Region: "north", Population: 100, Inventory: models.Inventory{10, 0, 0, 0, 0}},
		{Name: "b", Region: "north", Population: 100, Inventory: models.Inventory{10, 0, 0, 0, 0}},
		{Name: "c", Region: "south", Population: 200, Inventory: models.Inventory{10, 0, 0, 0, 0}},
	}
	state := models.NewGridState(locations)
	state.Damage[0].Damaged[models.Transmission] = 1

	agg := &FaultAggregator{SinglePath: true, RegionalPath: true}
	outage := agg.Refresh(state)

	assert.Equal(t, 1.0, state.Damage[0].OutageFraction)
	assert.Equal(t, 1.0, state.Damage[1].OutageFraction, "undamaged neighbor loses its path")
	assert.Equal(t, 0.0, state.Damage[2].OutageFraction, "other regions unaffected")
	assert.InDelta(t, 0.5, outage, 1e-12)

	// Without the regional path only the damaged location is out
	outage = NewFaultAggregator().Refresh(state)
	assert.Equal(t, 0.0, state.Damage[1].OutageFraction)
	assert.InDelta(t, 0.25, outage, 1e-12)
}

func TestSystemOutageWithoutPopulation(t *testing.T) {
	state := models.NewGridState([]models.Location{
		{Name: "empty", Region: "r", Inventory: models.Inventory{1, 0, 0, 0, 0}},
	})
	state.Damage[0].Damaged[models.Transmission] = 1
	assert.Equal(t, 0.0, NewFaultAggregator().Refresh(state))
}
