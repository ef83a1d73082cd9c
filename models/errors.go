// ABOUTME: Error taxonomy for input validation and non-convergent runs
// ABOUTME: Callers inspect these with errors.As

package models

import (
	"errors"
	"fmt"
)

// ErrNoLocations is returned when an input table has no rows
var ErrNoLocations = errors.New("no locations in input")

// ValidationError reports invalid input or configuration. It is fatal and raised before simulation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NonConvergenceError reports a repair loop that hit its day cap or stopped making progress
type NonConvergenceError struct {
	Days           int
	OutageFraction float64
	Reason         string
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("restoration did not converge after %d days (outage %.4f): %s", e.Days, e.OutageFraction, e.Reason)
}
