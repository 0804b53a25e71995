package domain

import "time"

// Interval is a half-open time range [Start, End). Two intervals that share
// a boundary do not overlap, so back-to-back bookings are legal.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// OverlapsAny returns the first interval in busy that overlaps iv, if any.
func OverlapsAny(iv Interval, busy []Interval) (Interval, bool) {
	for _, b := range busy {
		if iv.Overlaps(b) {
			return b, true
		}
	}
	return Interval{}, false
}
