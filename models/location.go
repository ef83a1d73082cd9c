// ABOUTME: Location records loaded from the input inventory table
// ABOUTME: One row per municipality or centralized generation node

package models

// WindSpeed is a peak wind speed stored in miles per hour
type WindSpeed float64

// MPH returns the speed in miles per hour
func (w WindSpeed) MPH() float64 { return float64(w) }

// MetersPerSecond returns the speed in m/s
func (w WindSpeed) MetersPerSecond() float64 { return float64(w) * 0.44704 }

// KilometersPerHour returns the speed in km/h
func (w WindSpeed) KilometersPerHour() float64 { return float64(w) * 1.60934 }

// Knots returns the speed in knots
func (w WindSpeed) Knots() float64 { return float64(w) / 1.15078 }

// Location is one node of the modeled grid
type Location struct {
	Name       string    `json:"name"`
	Region     string    `json:"region"`
	Central    bool      `json:"central"` // centralized generation node, carries no population
	Population float64   `json:"population"`
	WindSpeed  WindSpeed `json:"windspeed_mph"`
	Inventory  Inventory `json:"inventory"`
	SolarMW    float64   `json:"solar_mw"`
	WindMW     float64   `json:"wind_mw"`
	TotalMW    float64   `json:"total_mw"`
}
