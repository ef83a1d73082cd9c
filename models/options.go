// ABOUTME: Closed enumerations for priority sorting and restoration strategy
// ABOUTME: Parsed from configuration strings, unknown values are validation errors

package models

import (
	"fmt"
	"strings"
)

// SortType selects the metric used to prioritize locations
type SortType int

const (
	SortByCost SortType = iota
	SortByCostPerCapita
	SortByOutageMagnitude
)

// SortOrder selects ascending or descending priority
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// RestoreMethod selects how the daily budget is allocated
type RestoreMethod int

const (
	NodeFirst RestoreMethod = iota
	ClassFirst
	Hybrid
)

var (
	sortTypeNames      = []string{"cost", "cost-per-capita", "outage-magnitude"}
	sortOrderNames     = []string{"ascending", "descending"}
	restoreMethodNames = []string{"node-first", "class-first", "hybrid"}
)

// Accepted spellings, including the legacy scenario-script names
var (
	sortTypeAliases = map[string]SortType{
		"cost":             SortByCost,
		"cost-per-capita":  SortByCostPerCapita,
		"cost_person":      SortByCostPerCapita,
		"cost-person":      SortByCostPerCapita,
		"outage-magnitude": SortByOutageMagnitude,
		"outage":           SortByOutageMagnitude,
	}
	sortOrderAliases = map[string]SortOrder{
		"ascending":  Ascending,
		"asc":        Ascending,
		"descending": Descending,
		"desc":       Descending,
	}
	restoreMethodAliases = map[string]RestoreMethod{
		"node-first":  NodeFirst,
		"node":        NodeFirst,
		"class-first": ClassFirst,
		"component":   ClassFirst,
		"hybrid":      Hybrid,
	}
)

func (t SortType) String() string {
	return enumName(sortTypeNames, int(t), "SortType")
}

func (o SortOrder) String() string {
	return enumName(sortOrderNames, int(o), "SortOrder")
}

func (m RestoreMethod) String() string {
	return enumName(restoreMethodNames, int(m), "RestoreMethod")
}

func enumName(names []string, i int, kind string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

// ParseSortType parses a sort type name
func ParseSortType(s string) (SortType, error) {
	if v, ok := sortTypeAliases[normalizeEnum(s)]; ok {
		return v, nil
	}
	return 0, &ValidationError{Field: "sort_type", Reason: fmt.Sprintf("unknown value %q (want one of %s)", s, strings.Join(sortTypeNames, ", "))}
}

// ParseSortOrder parses a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	if v, ok := sortOrderAliases[normalizeEnum(s)]; ok {
		return v, nil
	}
	return 0, &ValidationError{Field: "sort_order", Reason: fmt.Sprintf("unknown value %q (want one of %s)", s, strings.Join(sortOrderNames, ", "))}
}

// ParseRestoreMethod parses a restoration method name
func ParseRestoreMethod(s string) (RestoreMethod, error) {
	if v, ok := restoreMethodAliases[normalizeEnum(s)]; ok {
		return v, nil
	}
	return 0, &ValidationError{Field: "restore_method", Reason: fmt.Sprintf("unknown value %q (want one of %s)", s, strings.Join(restoreMethodNames, ", "))}
}

// AllSortTypes lists every sort type in declaration order
func AllSortTypes() []SortType {
	return []SortType{SortByCost, SortByCostPerCapita, SortByOutageMagnitude}
}

// AllSortOrders lists every sort order in declaration order
func AllSortOrders() []SortOrder { return []SortOrder{Ascending, Descending} }

// AllRestoreMethods lists every restoration method in declaration order
func AllRestoreMethods() []RestoreMethod {
	return []RestoreMethod{NodeFirst, ClassFirst, Hybrid}
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MarshalText implements encoding.TextMarshaler
func (t SortType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// MarshalText implements encoding.TextMarshaler
func (o SortOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// MarshalText implements encoding.TextMarshaler
func (m RestoreMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (t *SortType) UnmarshalText(b []byte) error {
	v, err := ParseSortType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *SortOrder) UnmarshalText(b []byte) error {
	v, err := ParseSortOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *RestoreMethod) UnmarshalText(b []byte) error {
	v, err := ParseRestoreMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
