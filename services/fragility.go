// ABOUTME: Fragility model converting peak wind speed into expected damaged assets
// ABOUTME: Piecewise-linear curves per asset class, clamped at both ends

package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/markalston/grid-restore/models"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/interp"
)

// Curve maps a hazard intensity to a failure probability for one asset class
type Curve struct {
	Class  models.AssetClass
	Unit   string // hazard unit of the breakpoints
	hazard func(models.WindSpeed) float64
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

// NewCurve builds a curve from breakpoints sorted by strictly increasing intensity
func NewCurve(class models.AssetClass, unit string, hazard func(models.WindSpeed) float64, xs, ys []float64) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%s curve: %d intensities but %d probabilities", class, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%s curve: need at least 2 breakpoints, got %d", class, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%s curve: intensities must be strictly increasing at breakpoint %d", class, i)
		}
	}
	c := &Curve{Class: class, Unit: unit, hazard: hazard, xs: xs, ys: ys}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("%s curve: %w", class, err)
	}
	return c, nil
}

func mustCurve(class models.AssetClass, unit string, hazard func(models.WindSpeed) float64, xs, ys []float64) *Curve {
	c, err := NewCurve(class, unit, hazard, xs, ys)
	if err != nil {
		panic(err)
	}
	return c
}

// Intensity converts a wind speed into this curve's hazard unit
func (c *Curve) Intensity(speed models.WindSpeed) float64 {
	return c.hazard(speed)
}

// FailureProbability interpolates linearly between breakpoints. Outside the
// breakpoint range the nearest end value is used. The result is clamped to [0,1].
func (c *Curve) FailureProbability(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	n := len(c.xs)
	var p float64
	switch {
	case x <= c.xs[0]:
		p = c.ys[0]
	case x >= c.xs[n-1]:
		p = c.ys[n-1]
	default:
		p = c.pl.Predict(x)
	}
	return clamp01(p)
}

// Breakpoints returns copies of the curve's intensities and probabilities
func (c *Curve) Breakpoints() (xs, ys []float64) {
	xs = append([]float64(nil), c.xs...)
	ys = append([]float64(nil), c.ys...)
	return xs, ys
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FragilityModel estimates initial damage for every location
type FragilityModel struct {
	curves [models.NumAssetClasses]*Curve

	// AllOrNothing rounds expected damage up: any partial damage is a full outage of the unit.
	AllOrNothing bool
	// Workers bounds parallel assessment; <= 0 means GOMAXPROCS.
	Workers int

	logger *slog.Logger
}

// NewFragilityModel creates a model with the published curves
func NewFragilityModel(allOrNothing bool, logger *slog.Logger) *FragilityModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &FragilityModel{
		curves:       DefaultCurves(),
		AllOrNothing: allOrNothing,
		logger:       logger,
	}
}

// Curve returns the curve for a class
func (m *FragilityModel) Curve(class models.AssetClass) *Curve {
	return m.curves[class]
}

// Probability returns the failure probability of a class at a wind speed
func (m *FragilityModel) Probability(class models.AssetClass, speed models.WindSpeed) float64 {
	c := m.curves[class]
	return c.FailureProbability(c.Intensity(speed))
}

// ExpectedDamaged returns failure probability × quantity, rounded up when AllOrNothing is set.
// The result never exceeds the quantity.
func (m *FragilityModel) ExpectedDamaged(class models.AssetClass, speed models.WindSpeed, quantity float64) float64 {
	if quantity <= 0 {
		return 0
	}
	damaged := m.Probability(class, speed) * quantity
	if m.AllOrNothing {
		damaged = math.Min(math.Ceil(damaged), quantity)
	}
	return damaged
}

// Damage returns the expected damaged quantity of every class at a location
func (m *FragilityModel) Damage(loc models.Location) models.Inventory {
	var damaged models.Inventory
	for _, class := range models.RepairOrder {
		damaged[class] = m.ExpectedDamaged(class, loc.WindSpeed, loc.Inventory[class])
	}
	return damaged
}

// AssessDamage fills in the damaged quantities of every location in the state.
// Locations are independent, so they are assessed in parallel.
func (m *FragilityModel) AssessDamage(ctx context.Context, state *models.GridState) error {
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range state.Locations {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			state.Damage[i].Damaged = m.Damage(state.Locations[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("assess damage: %w", err)
	}

	m.logger.Debug("Damage assessed", "locations", len(state.Locations), "backlog", state.Backlog())
	return nil
}
