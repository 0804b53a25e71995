package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/schedule"
	"inkwell/backend/internal/store"
)

type fakeRepo struct {
	appointments []domain.Appointment
	blocked      []domain.BlockedRange
	listErr      error
}

func (f *fakeRepo) InProviderTx(ctx context.Context, providerID string, fn func(ctx context.Context, tx store.BookingTx) error) error {
	panic("InProviderTx not expected on the read path")
}

func (f *fakeRepo) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	return domain.Appointment{}, store.ErrNotFound
}

func (f *fakeRepo) ListAppointments(ctx context.Context, providerID string, window domain.Interval) ([]domain.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Appointment
	for _, a := range f.appointments {
		if a.ProviderID == providerID && a.Interval().Overlaps(window) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBlockedRanges(ctx context.Context, providerID string, window domain.Interval) ([]domain.BlockedRange, error) {
	var out []domain.BlockedRange
	for _, b := range f.blocked {
		if b.ProviderID == providerID && b.Interval().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetBlockedRange(ctx context.Context, id uuid.UUID) (domain.BlockedRange, error) {
	return domain.BlockedRange{}, store.ErrNotFound
}

type fakeCatalog struct {
	services map[uuid.UUID]domain.Service
}

func (f *fakeCatalog) Get(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return domain.Service{}, store.ErrNotFound
	}
	return svc, nil
}

func (f *fakeCatalog) List(ctx context.Context) ([]domain.Service, error) {
	return nil, nil
}

var serviceID = uuid.MustParse("3f1e5f2a-91c4-4f64-8f3c-6f14f9f12f01")

func newTestService(repo *fakeRepo) *Service {
	catalog := &fakeCatalog{services: map[uuid.UUID]domain.Service{
		serviceID: {ID: serviceID, Name: "flash piece", NominalDurationMinutes: 60, BasePriceCents: 12000},
	}}
	return NewService(repo, catalog, schedule.NewStaticPolicyProvider(schedule.DefaultPolicy()))
}

func TestComputeSlots_UsesNominalDuration(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	slots, err := svc.ComputeSlots(context.Background(), "artist-1", date, serviceID, 0)
	if err != nil {
		t.Fatalf("ComputeSlots: %v", err)
	}
	if len(slots) != 9 {
		t.Fatalf("len(slots) = %d, want 9 for a 60 minute service", len(slots))
	}
}

func TestComputeSlots_DurationOverrideWins(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	slots, err := svc.ComputeSlots(context.Background(), "artist-1", date, serviceID, 2*time.Hour)
	if err != nil {
		t.Fatalf("ComputeSlots: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("len(slots) = %d, want 8 for a 2 hour override", len(slots))
	}
}

func TestComputeSlots_RequiresServiceOrDuration(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.ComputeSlots(context.Background(), "artist-1", date, uuid.Nil, 0)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v (%T), want *ValidationError", err, err)
	}

	_, err = svc.ComputeSlots(context.Background(), "", date, serviceID, 0)
	if !errors.As(err, &vErr) {
		t.Fatalf("missing provider error = %v (%T), want *ValidationError", err, err)
	}
}

func TestComputeSlots_UnknownServiceNotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.ComputeSlots(context.Background(), "artist-1", date, uuid.New(), 0)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestComputeSlots_ReflectsBookingsAndBlocks(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		appointments: []domain.Appointment{
			{
				ID: uuid.New(), ProviderID: "artist-1", Status: domain.StatusConfirmed,
				StartTime: date.Add(14 * time.Hour), EndTime: date.Add(15 * time.Hour),
			},
			{
				ID: uuid.New(), ProviderID: "artist-1", Status: domain.StatusCancelled,
				StartTime: date.Add(10 * time.Hour), EndTime: date.Add(11 * time.Hour),
			},
		},
		blocked: []domain.BlockedRange{
			{ID: uuid.New(), ProviderID: "artist-1", StartTime: date.Add(9 * time.Hour), EndTime: date.Add(10 * time.Hour)},
		},
	}
	svc := newTestService(repo)

	slots, err := svc.ComputeSlots(context.Background(), "artist-1", date, serviceID, 0)
	if err != nil {
		t.Fatalf("ComputeSlots: %v", err)
	}
	available := map[int]bool{}
	for _, sl := range slots {
		available[sl.Start.Hour()] = sl.Available
	}
	if available[9] {
		t.Errorf("09:00 should be blocked by the blocked range")
	}
	if !available[10] {
		t.Errorf("10:00 should be open; cancelled bookings do not occupy")
	}
	if available[14] {
		t.Errorf("14:00 should be taken by the confirmed booking")
	}
}

func TestMonth_WindowIncludesPaddingDays(t *testing.T) {
	// An appointment on the trailing padding day (April 1) must appear in
	// the March grid.
	paddingDay := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		appointments: []domain.Appointment{
			{
				ID: uuid.New(), ProviderID: "artist-1", Status: domain.StatusConfirmed,
				StartTime: paddingDay, EndTime: paddingDay.Add(time.Hour),
			},
		},
	}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo).WithClock(func() time.Time { return now })

	grid, err := svc.Month(context.Background(), "artist-1", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if grid.Month != time.March {
		t.Fatalf("month = %s, want March", grid.Month)
	}

	var found bool
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if cell.Date.Month() == time.April && cell.Date.Day() == 1 && len(cell.Appointments) == 1 {
				found = true
			}
			if cell.IsToday && (cell.Date.Month() != time.March || cell.Date.Day() != 10) {
				t.Errorf("IsToday flagged on %v", cell.Date)
			}
		}
	}
	if !found {
		t.Errorf("appointment on the April 1 padding day missing from the grid")
	}
}

func TestWeek_GridFollowsBookings(t *testing.T) {
	// Anchor Wednesday March 11; the week runs from Sunday March 8.
	anchor := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		appointments: []domain.Appointment{
			{
				ID: uuid.New(), ProviderID: "artist-1", Status: domain.StatusPending,
				StartTime: time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	svc := newTestService(repo)

	grid, err := svc.Week(context.Background(), "artist-1", anchor)
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if grid.WeekStart.Weekday() != time.Sunday || grid.WeekStart.Day() != 8 {
		t.Fatalf("WeekStart = %v, want Sunday March 8", grid.WeekStart)
	}
	monday := grid.Days[1]
	for _, sl := range monday.Slots {
		wantAvailable := sl.Start.Hour() != 11
		if sl.Available != wantAvailable {
			t.Errorf("Monday %v available = %v, want %v", sl.Start, sl.Available, wantAvailable)
		}
	}
}

func TestDay_ResolvesOccupants(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	appt := domain.Appointment{
		ID: uuid.New(), ProviderID: "artist-1", Status: domain.StatusConfirmed,
		StartTime: date.Add(13 * time.Hour), EndTime: date.Add(14 * time.Hour),
	}
	repo := &fakeRepo{appointments: []domain.Appointment{appt}}
	svc := newTestService(repo)

	grid, err := svc.Day(context.Background(), "artist-1", date)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	for _, sl := range grid.Slots {
		if sl.Start.Hour() == 13 {
			if sl.Appointment == nil || sl.Appointment.ID != appt.ID {
				t.Errorf("13:00 slot should resolve to the booked appointment")
			}
		} else if sl.Appointment != nil {
			t.Errorf("slot %v unexpectedly occupied", sl.Start)
		}
	}
}

func TestReadPath_PropagatesStoreErrors(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("connection reset")}
	svc := newTestService(repo)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.ComputeSlots(context.Background(), "artist-1", date, serviceID, 0); err == nil {
		t.Errorf("ComputeSlots should propagate the store error")
	}
	if _, err := svc.Month(context.Background(), "artist-1", date); err == nil {
		t.Errorf("Month should propagate the store error")
	}
	if _, err := svc.Week(context.Background(), "artist-1", date); err == nil {
		t.Errorf("Week should propagate the store error")
	}
	if _, err := svc.Day(context.Background(), "artist-1", date); err == nil {
		t.Errorf("Day should propagate the store error")
	}
}
