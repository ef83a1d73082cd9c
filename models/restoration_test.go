package models

import (
	"math"
	"testing"
)

func TestWindSpeedConversions(t *testing.T) {
	w := WindSpeed(100)

	if math.Abs(w.MetersPerSecond()-44.704) > 1e-9 {
		t.Errorf("Expected 44.704 m/s, got %f", w.MetersPerSecond())
	}
	if math.Abs(w.KilometersPerHour()-160.934) > 1e-9 {
		t.Errorf("Expected 160.934 km/h, got %f", w.KilometersPerHour())
	}
	if math.Abs(w.Knots()-86.8968) > 1e-3 {
		t.Errorf("Expected ~86.897 knots, got %f", w.Knots())
	}
}

func TestNewRestorationRecord(t *testing.T) {
	r := NewRestorationRecord(3, 1000, 0.25, 400)

	if r.PowerFraction != 0.75 {
		t.Errorf("Expected power fraction 0.75, got %f", r.PowerFraction)
	}
	if r.PopWithout != 100 {
		t.Errorf("Expected 100 without power, got %f", r.PopWithout)
	}
	if r.PopWith != 300 {
		t.Errorf("Expected 300 with power, got %f", r.PopWith)
	}
}

func TestTimelineAt(t *testing.T) {
	tl := Timeline{
		NewRestorationRecord(0, 0, 1, 10),
		NewRestorationRecord(1, 5, 0.5, 10),
		NewRestorationRecord(2, 5, 0, 10),
	}

	r, ok := tl.At(1)
	if !ok || r.OutageFraction != 0.5 {
		t.Errorf("Expected day 1 outage 0.5, got %v (ok=%v)", r.OutageFraction, ok)
	}

	// Past the end the grid stays in its final state
	r, ok = tl.At(30)
	if !ok || r.Time != 2 {
		t.Errorf("Expected last record for day 30, got %+v", r)
	}

	if tl.TotalCost() != 10 {
		t.Errorf("Expected total cost 10, got %f", tl.TotalCost())
	}
}

func TestGridStateClone(t *testing.T) {
	s := NewGridState([]Location{{Name: "a", Population: 10}, {Name: "c", Central: true}})
	s.Damage[0].Damaged[Transmission] = 2

	c := s.Clone()
	c.Damage[0].Damaged[Transmission] = 0

	if s.Damage[0].Damaged[Transmission] != 2 {
		t.Error("Expected clone mutation not to affect original")
	}
	if s.Backlog() != 2 {
		t.Errorf("Expected backlog 2, got %f", s.Backlog())
	}
	if s.TotalPopulation() != 10 {
		t.Errorf("Expected population 10 (centralized excluded), got %f", s.TotalPopulation())
	}
}
