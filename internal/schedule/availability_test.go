package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/backend/internal/domain"
)

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func at(base time.Time, hour int) time.Time {
	return base.Add(time.Duration(hour) * time.Hour)
}

func TestSlots_FullOpenDay(t *testing.T) {
	d := day(t)
	slots := Slots(d, DefaultPolicy(), time.Hour, nil)

	if len(slots) != 9 {
		t.Fatalf("len(slots) = %d, want 9", len(slots))
	}
	if !slots[0].Start.Equal(at(d, 9)) {
		t.Errorf("first slot starts %v, want 09:00", slots[0].Start)
	}
	if !slots[8].Start.Equal(at(d, 17)) || !slots[8].End.Equal(at(d, 18)) {
		t.Errorf("last slot = [%v, %v), want [17:00, 18:00)", slots[8].Start, slots[8].End)
	}
	for i, sl := range slots {
		if !sl.Available {
			t.Errorf("slot %d should be available on an open day", i)
		}
	}
}

func TestSlots_OneBookingMarksOneSlot(t *testing.T) {
	d := day(t)
	busy := []domain.Interval{{Start: at(d, 14), End: at(d, 15)}}

	slots := Slots(d, DefaultPolicy(), time.Hour, busy)
	if len(slots) != 9 {
		t.Fatalf("len(slots) = %d, want 9", len(slots))
	}
	for _, sl := range slots {
		wantAvailable := !sl.Start.Equal(at(d, 14))
		if sl.Available != wantAvailable {
			t.Errorf("slot at %v available = %v, want %v", sl.Start, sl.Available, wantAvailable)
		}
	}
}

func TestSlots_LongServiceExcludesTrailingStarts(t *testing.T) {
	d := day(t)
	slots := Slots(d, DefaultPolicy(), 2*time.Hour, nil)

	// A 2h service cannot start at 17:00; the last viable start is 16:00.
	if len(slots) != 8 {
		t.Fatalf("len(slots) = %d, want 8", len(slots))
	}
	last := slots[len(slots)-1]
	if !last.Start.Equal(at(d, 16)) || !last.End.Equal(at(d, 18)) {
		t.Errorf("last slot = [%v, %v), want [16:00, 18:00)", last.Start, last.End)
	}
}

func TestSlots_BackToBackBoundaryStaysAvailable(t *testing.T) {
	d := day(t)
	busy := []domain.Interval{{Start: at(d, 10), End: at(d, 11)}}

	slots := Slots(d, DefaultPolicy(), time.Hour, busy)
	for _, sl := range slots {
		if sl.Start.Equal(at(d, 9)) && !sl.Available {
			t.Errorf("slot ending exactly at a booking start should stay available")
		}
		if sl.Start.Equal(at(d, 11)) && !sl.Available {
			t.Errorf("slot starting exactly at a booking end should stay available")
		}
	}
}

func TestSlots_DegenerateInputs(t *testing.T) {
	d := day(t)
	if got := Slots(d, DefaultPolicy(), 0, nil); got != nil {
		t.Errorf("zero duration should yield no slots, got %d", len(got))
	}
	if got := Slots(d, DefaultPolicy(), -time.Hour, nil); got != nil {
		t.Errorf("negative duration should yield no slots, got %d", len(got))
	}
	pol := Policy{StartHour: 18, EndHour: 9, SlotGranularityMinutes: 60}
	if got := Slots(d, pol, time.Hour, nil); got != nil {
		t.Errorf("inverted business hours should yield no slots, got %d", len(got))
	}
	if got := Slots(d, DefaultPolicy(), 10*time.Hour, nil); len(got) != 0 {
		t.Errorf("service longer than the day should yield no slots, got %d", len(got))
	}
}

func TestSlots_FinerGranularity(t *testing.T) {
	d := day(t)
	pol := Policy{StartHour: 9, EndHour: 11, SlotGranularityMinutes: 30}

	slots := Slots(d, pol, time.Hour, nil)
	// Starts 09:00, 09:30, 10:00; a 10:30 start would spill past 11:00.
	if len(slots) != 3 {
		t.Fatalf("len(slots) = %d, want 3", len(slots))
	}
	if !slots[1].Start.Equal(d.Add(9*time.Hour + 30*time.Minute)) {
		t.Errorf("second start = %v, want 09:30", slots[1].Start)
	}
}

func TestBusyIntervals_FiltersNonBlocking(t *testing.T) {
	d := day(t)
	appts := []domain.Appointment{
		{ID: uuid.New(), StartTime: at(d, 9), EndTime: at(d, 10), Status: domain.StatusPending},
		{ID: uuid.New(), StartTime: at(d, 10), EndTime: at(d, 11), Status: domain.StatusConfirmed},
		{ID: uuid.New(), StartTime: at(d, 11), EndTime: at(d, 12), Status: domain.StatusCancelled},
		{ID: uuid.New(), StartTime: at(d, 12), EndTime: at(d, 13), Status: domain.StatusCompleted},
		{ID: uuid.New(), StartTime: at(d, 13), EndTime: at(d, 14), Status: domain.StatusNoShow},
	}
	blocked := []domain.BlockedRange{
		{ID: uuid.New(), StartTime: at(d, 16), EndTime: at(d, 17)},
	}

	busy := BusyIntervals(appts, blocked)
	if len(busy) != 3 {
		t.Fatalf("len(busy) = %d, want 3 (pending + confirmed + blocked range)", len(busy))
	}
	if !busy[2].Start.Equal(at(d, 16)) {
		t.Errorf("blocked range missing from busy set")
	}
}
