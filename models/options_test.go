package models

import (
	"errors"
	"testing"
)

func TestParseSortType(t *testing.T) {
	tests := []struct {
		in   string
		want SortType
	}{
		{"cost", SortByCost},
		{"Cost", SortByCost},
		{"cost-per-capita", SortByCostPerCapita},
		{"Cost_Person", SortByCostPerCapita},
		{"outage-magnitude", SortByOutageMagnitude},
		{" Outage ", SortByOutageMagnitude},
	}
	for _, tt := range tests {
		got, err := ParseSortType(tt.in)
		if err != nil {
			t.Errorf("ParseSortType(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortType(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestParseEnums_Unknown(t *testing.T) {
	if _, err := ParseSortType("Low"); err == nil {
		t.Error("Expected error for sort type Low")
	}
	if _, err := ParseSortOrder("sideways"); err == nil {
		t.Error("Expected error for sort order sideways")
	}
	_, err := ParseRestoreMethod("random")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "restore_method" {
		t.Errorf("Expected field restore_method, got %s", verr.Field)
	}
}

func TestParseRestoreMethod_Aliases(t *testing.T) {
	for in, want := range map[string]RestoreMethod{
		"node":        NodeFirst,
		"node-first":  NodeFirst,
		"component":   ClassFirst,
		"class-first": ClassFirst,
		"HYBRID":      Hybrid,
	} {
		got, err := ParseRestoreMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseRestoreMethod(%q) = %v, %v; expected %v", in, got, err, want)
		}
	}
}

func TestEnumStringRoundTrip(t *testing.T) {
	for _, st := range AllSortTypes() {
		got, err := ParseSortType(st.String())
		if err != nil || got != st {
			t.Errorf("sort type %v did not round trip", st)
		}
	}
	for _, m := range AllRestoreMethods() {
		got, err := ParseRestoreMethod(m.String())
		if err != nil || got != m {
			t.Errorf("restore method %v did not round trip", m)
		}
	}
	if SortType(9).String() != "SortType(9)" {
		t.Errorf("unexpected name for out-of-range sort type: %s", SortType(9).String())
	}
}
