// ABOUTME: Input validation for location tables before simulation
// ABOUTME: Collects every problem so a bad input file is reported in one pass

package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/markalston/grid-restore/models"
)

// sanitizeForLog removes control characters from strings so location names
// read from files cannot inject lines into logs or error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

func checkQuantity(errs []error, field string, v float64) []error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(errs, &models.ValidationError{Field: field, Reason: "must be a finite number"})
	}
	if v < 0 {
		return append(errs, &models.ValidationError{Field: field, Reason: fmt.Sprintf("must not be negative, got %v", v)})
	}
	return errs
}

// ValidateLocations checks every location and returns all problems joined.
// Returns models.ErrNoLocations for an empty table.
func ValidateLocations(locations []models.Location) error {
	if len(locations) == 0 {
		return models.ErrNoLocations
	}

	var errs []error
	seen := make(map[string]int, len(locations))
	for i, loc := range locations {
		prefix := fmt.Sprintf("locations[%d]", i)
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			errs = append(errs, &models.ValidationError{Field: prefix + ".name", Reason: "cannot be empty"})
		} else {
			prefix = fmt.Sprintf("locations[%s]", sanitizeForLog(name))
			if first, dup := seen[name]; dup {
				errs = append(errs, &models.ValidationError{Field: prefix + ".name", Reason: fmt.Sprintf("duplicates row %d", first)})
			}
			seen[name] = i
		}
		if strings.TrimSpace(loc.Region) == "" {
			errs = append(errs, &models.ValidationError{Field: prefix + ".region", Reason: "cannot be empty"})
		}

		errs = checkQuantity(errs, prefix+".population", loc.Population)
		errs = checkQuantity(errs, prefix+".windspeed", float64(loc.WindSpeed))
		for _, class := range models.RepairOrder {
			errs = checkQuantity(errs, prefix+".inventory."+class.String(), loc.Inventory[class])
		}
		errs = checkQuantity(errs, prefix+".solar_mw", loc.SolarMW)
		errs = checkQuantity(errs, prefix+".wind_mw", loc.WindMW)
		errs = checkQuantity(errs, prefix+".total_mw", loc.TotalMW)
	}
	return errors.Join(errs...)
}
