package schedule

import (
	"time"

	"inkwell/backend/internal/domain"
)

// TimeSlot is one candidate booking interval of the day grid. Unavailable
// slots are kept in the output so callers can render them as disabled.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// Slots generates the full chronological slot grid for the day containing
// date. Candidate starts step at the policy granularity across business
// hours; each candidate runs for duration. A candidate whose end would
// exceed the end of business hours is excluded outright rather than
// truncated. A slot is available iff it does not overlap any busy interval.
//
// Pure function of its inputs: callers must re-fetch busy intervals on every
// call so the grid always reflects the bookings that exist right now.
func Slots(date time.Time, pol Policy, duration time.Duration, busy []domain.Interval) []TimeSlot {
	if duration <= 0 {
		return nil
	}
	window := pol.DayWindow(date)
	step := pol.Granularity()
	if step <= 0 || !window.End.After(window.Start) {
		return nil
	}

	var out []TimeSlot
	for start := window.Start; start.Before(window.End); start = start.Add(step) {
		end := start.Add(duration)
		if end.After(window.End) {
			break
		}
		_, conflict := domain.OverlapsAny(domain.Interval{Start: start, End: end}, busy)
		out = append(out, TimeSlot{Start: start, End: end, Available: !conflict})
	}
	return out
}

// BusyIntervals collapses blocking appointments and blocked ranges into the
// interval list Slots consumes. Completed, cancelled and no-show
// appointments do not occupy their intervals.
func BusyIntervals(appts []domain.Appointment, blocked []domain.BlockedRange) []domain.Interval {
	out := make([]domain.Interval, 0, len(appts)+len(blocked))
	for i := range appts {
		if appts[i].Status.Blocking() {
			out = append(out, appts[i].Interval())
		}
	}
	for i := range blocked {
		out = append(out, blocked[i].Interval())
	}
	return out
}
