package domain

import (
	"testing"
	"time"
)

func iv(startHour, endHour int) Interval {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint before", iv(9, 10), iv(11, 12), false},
		{"disjoint after", iv(11, 12), iv(9, 10), false},
		{"back to back", iv(9, 10), iv(10, 11), false},
		{"back to back reversed", iv(10, 11), iv(9, 10), false},
		{"partial overlap", iv(9, 11), iv(10, 12), true},
		{"contained", iv(9, 12), iv(10, 11), true},
		{"containing", iv(10, 11), iv(9, 12), true},
		{"identical", iv(9, 10), iv(9, 10), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps (reversed) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntervalContains(t *testing.T) {
	outer := iv(9, 18)
	if !outer.Contains(iv(9, 18)) {
		t.Errorf("interval should contain itself")
	}
	if !outer.Contains(iv(10, 11)) {
		t.Errorf("interval should contain inner range")
	}
	if outer.Contains(iv(8, 10)) {
		t.Errorf("interval should not contain range starting earlier")
	}
	if outer.Contains(iv(17, 19)) {
		t.Errorf("interval should not contain range ending later")
	}
}

func TestOverlapsAny(t *testing.T) {
	busy := []Interval{iv(9, 10), iv(14, 15)}

	hit, ok := OverlapsAny(iv(14, 16), busy)
	if !ok {
		t.Fatalf("expected overlap")
	}
	if !hit.Start.Equal(iv(14, 15).Start) {
		t.Fatalf("hit = %v, want 14:00 block", hit)
	}

	if _, ok := OverlapsAny(iv(10, 14), busy); ok {
		t.Fatalf("back-to-back range should not overlap any busy interval")
	}

	if _, ok := OverlapsAny(iv(11, 12), nil); ok {
		t.Fatalf("empty busy list should never overlap")
	}
}
