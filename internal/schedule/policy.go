package schedule

import (
	"time"

	"inkwell/backend/internal/domain"
)

// Policy is a provider's working-hours configuration. Hours are clock hours
// of the provider-local day; all computation happens in the location of the
// date passed in, so a single-zone deployment can run everything in UTC.
type Policy struct {
	StartHour              int
	EndHour                int
	SlotGranularityMinutes int
}

// DefaultPolicy is the studio-wide default: 09:00-18:00 with a
// 60 minute display grid.
func DefaultPolicy() Policy {
	return Policy{StartHour: 9, EndHour: 18, SlotGranularityMinutes: 60}
}

func (p Policy) Granularity() time.Duration {
	return time.Duration(p.SlotGranularityMinutes) * time.Minute
}

// DayWindow returns the business-hours interval for the day containing date.
func (p Policy) DayWindow(date time.Time) domain.Interval {
	y, m, d := date.Date()
	loc := date.Location()
	return domain.Interval{
		Start: time.Date(y, m, d, p.StartHour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, p.EndHour, 0, 0, 0, loc),
	}
}

// WithinHours reports whether iv falls entirely inside business hours of its
// own day. Intervals spanning midnight are never within hours.
func (p Policy) WithinHours(iv domain.Interval) bool {
	return p.DayWindow(iv.Start).Contains(iv)
}
