package schedule

import (
	"time"

	"inkwell/backend/internal/domain"
)

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date           time.Time            `json:"date"`
	IsCurrentMonth bool                 `json:"is_current_month"`
	IsToday        bool                 `json:"is_today"`
	Appointments   []domain.Appointment `json:"appointments"`
}

// MonthGrid is the month projection: complete 7-day rows, padded with
// leading and trailing days from the adjacent months.
type MonthGrid struct {
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Weeks [][]CalendarDay `json:"weeks"`
}

// DaySlot is one display slot of the day view with its occupying
// appointment resolved, if any.
type DaySlot struct {
	TimeSlot
	Appointment *domain.Appointment `json:"appointment,omitempty"`
}

type DayGrid struct {
	Date  time.Time `json:"date"`
	Slots []DaySlot `json:"slots"`
}

// WeekColumn pairs one date of the week with its availability grid.
type WeekColumn struct {
	Date  time.Time  `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

type WeekGrid struct {
	WeekStart time.Time    `json:"week_start"`
	Days      []WeekColumn `json:"days"`
}

// BuildMonth projects appointments onto the month containing anchor. Padding
// days from adjacent months are flagged IsCurrentMonth=false but still carry
// any appointments falling on them.
func BuildMonth(anchor time.Time, appts []domain.Appointment, today time.Time) MonthGrid {
	loc := anchor.Location()
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	gridStart := startOfWeek(first)
	lastDay := first.AddDate(0, 1, -1)
	gridEnd := startOfWeek(lastDay).AddDate(0, 0, 7)

	byDay := make(map[time.Time][]domain.Appointment, len(appts))
	for _, a := range appts {
		key := dayKey(a.StartTime.In(loc))
		byDay[key] = append(byDay[key], a)
	}
	todayKey := dayKey(today.In(loc))

	var weeks [][]CalendarDay
	for ws := gridStart; ws.Before(gridEnd); ws = ws.AddDate(0, 0, 7) {
		week := make([]CalendarDay, 0, 7)
		for i := 0; i < 7; i++ {
			d := ws.AddDate(0, 0, i)
			week = append(week, CalendarDay{
				Date:           d,
				IsCurrentMonth: d.Month() == first.Month(),
				IsToday:        dayKey(d) == todayKey,
				Appointments:   byDay[dayKey(d)],
			})
		}
		weeks = append(weeks, week)
	}

	return MonthGrid{Year: first.Year(), Month: first.Month(), Weeks: weeks}
}

// BuildWeek projects the seven days of the week containing anchor, starting
// from Sunday, each paired with its availability grid at the display
// granularity.
func BuildWeek(anchor time.Time, pol Policy, appts []domain.Appointment, blocked []domain.BlockedRange) WeekGrid {
	weekStart := startOfWeek(anchor)
	busy := BusyIntervals(appts, blocked)

	days := make([]WeekColumn, 0, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		days = append(days, WeekColumn{
			Date:  d,
			Slots: Slots(d, pol, pol.Granularity(), busy),
		})
	}
	return WeekGrid{WeekStart: weekStart, Days: days}
}

// BuildDay projects one date onto its display grid, resolving each slot to
// the blocking appointment occupying it, if any.
func BuildDay(date time.Time, pol Policy, appts []domain.Appointment, blocked []domain.BlockedRange) DayGrid {
	busy := BusyIntervals(appts, blocked)
	slots := Slots(date, pol, pol.Granularity(), busy)

	out := make([]DaySlot, 0, len(slots))
	for _, sl := range slots {
		ds := DaySlot{TimeSlot: sl}
		iv := domain.Interval{Start: sl.Start, End: sl.End}
		for i := range appts {
			if appts[i].Status.Blocking() && appts[i].Interval().Overlaps(iv) {
				ds.Appointment = &appts[i]
				break
			}
		}
		out = append(out, ds)
	}
	return DayGrid{Date: dayStart(date), Slots: out}
}

func startOfWeek(t time.Time) time.Time {
	d := dayStart(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) time.Time {
	return dayStart(t)
}
