// ABOUTME: Asset classes, per-class inventories, and repair unit costs
// ABOUTME: Fixes the class ordering used for repair and reporting

package models

import "fmt"

// AssetClass identifies one of the five kinds of grid infrastructure
type AssetClass int

const (
	Transmission AssetClass = iota
	Substation
	Distribution
	Solar
	Wind

	// NumAssetClasses is the number of modeled asset classes
	NumAssetClasses = 5
)

// RepairOrder is the fixed order in which classes are repaired within a location.
// Network classes come before generation classes.
var RepairOrder = [NumAssetClasses]AssetClass{Transmission, Substation, Distribution, Solar, Wind}

// NetworkClasses are the delivery network classes
var NetworkClasses = []AssetClass{Transmission, Substation, Distribution}

// GenerationClasses are the generation classes
var GenerationClasses = []AssetClass{Solar, Wind}

var assetClassNames = [NumAssetClasses]string{"transmission", "substation", "distribution", "solar", "wind"}

func (c AssetClass) String() string {
	if c < 0 || int(c) >= NumAssetClasses {
		return fmt.Sprintf("AssetClass(%d)", int(c))
	}
	return assetClassNames[c]
}

// Inventory holds one quantity per asset class, indexed by AssetClass
type Inventory [NumAssetClasses]float64

// Total sums the quantities across classes
func (inv Inventory) Total() float64 {
	var sum float64
	for _, q := range inv {
		sum += q
	}
	return sum
}

// UnitCosts holds the repair cost in dollars of one unit of each class
type UnitCosts Inventory

// DefaultUnitCosts returns the published per-unit repair costs (Ouyang et al. 2014 for network assets)
func DefaultUnitCosts() UnitCosts {
	var c UnitCosts
	c[Transmission] = 0.4e6 // one transmission structure
	c[Substation] = 5.5e6   // one substation, moderate damage
	c[Distribution] = 2500  // one distribution pole
	c[Solar] = 850
	c[Wind] = 1.75e6
	return c
}

// Of returns the unit cost of a class
func (c UnitCosts) Of(class AssetClass) float64 {
	return c[class]
}
