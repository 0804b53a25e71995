package domain

import (
	"testing"
	"time"
)

func TestParseAppointmentStatus(t *testing.T) {
	cases := []struct {
		in   string
		want AppointmentStatus
		ok   bool
	}{
		{"pending", StatusPending, true},
		{"confirmed", StatusConfirmed, true},
		{"completed", StatusCompleted, true},
		{"cancelled", StatusCancelled, true},
		{"no_show", StatusNoShow, true},
		{"PENDING", "", false},
		{"noshow", "", false},
		{"", "", false},
		{"done", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseAppointmentStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseAppointmentStatus(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStatusCanTransition(t *testing.T) {
	cases := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[AppointmentStatus]bool{
		StatusPending:   false,
		StatusConfirmed: false,
		StatusCompleted: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	}
	for st, want := range terminal {
		if got := st.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", st, got, want)
		}
	}
}

func TestStatusBlocking(t *testing.T) {
	blocking := map[AppointmentStatus]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCompleted: false,
		StatusCancelled: false,
		StatusNoShow:    false,
	}
	for st, want := range blocking {
		if got := st.Blocking(); got != want {
			t.Errorf("%s.Blocking() = %v, want %v", st, got, want)
		}
	}
}

func TestAppointmentInterval(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	appt := Appointment{StartTime: start, EndTime: end}
	iv := appt.Interval()
	if !iv.Start.Equal(start) || !iv.End.Equal(end) {
		t.Fatalf("Interval() = %v, want [%v, %v)", iv, start, end)
	}
}
