package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/schedule"
	"inkwell/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service answers availability and calendar queries. It is a pure reader:
// it takes no locks and re-reads stored state on every call, so the grid
// always reflects bookings made a moment ago.
type Service struct {
	repo     store.BookingRepository
	catalog  store.CatalogRepository
	policies schedule.PolicyProvider
	now      func() time.Time
}

func NewService(repo store.BookingRepository, catalog store.CatalogRepository, policies schedule.PolicyProvider) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		policies: policies,
		now:      time.Now,
	}
}

// WithClock overrides the current-time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ComputeSlots returns the full slot grid for one provider-day. The
// candidate duration is the service's nominal duration unless the caller
// overrides it.
func (s *Service) ComputeSlots(ctx context.Context, providerID string, date time.Time, serviceID uuid.UUID, durationOverride time.Duration) ([]schedule.TimeSlot, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}

	duration := durationOverride
	if duration <= 0 {
		if serviceID == uuid.Nil {
			return nil, validationError("service_id or duration is required")
		}
		svc, err := s.catalog.Get(ctx, serviceID)
		if err != nil {
			return nil, err
		}
		duration = svc.NominalDuration()
	}

	pol, err := s.policies.PolicyFor(ctx, providerID)
	if err != nil {
		return nil, err
	}

	appts, blocked, err := s.dayState(ctx, providerID, pol.DayWindow(date))
	if err != nil {
		return nil, err
	}

	return schedule.Slots(date, pol, duration, schedule.BusyIntervals(appts, blocked)), nil
}

// Month builds the month grid containing anchor, including appointments on
// the padding days of adjacent months.
func (s *Service) Month(ctx context.Context, providerID string, anchor time.Time) (schedule.MonthGrid, error) {
	if providerID == "" {
		return schedule.MonthGrid{}, validationError("provider_id is required")
	}

	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	window := domain.Interval{
		Start: first.AddDate(0, 0, -7),
		End:   first.AddDate(0, 1, 7),
	}
	appts, err := s.repo.ListAppointments(ctx, providerID, window)
	if err != nil {
		return schedule.MonthGrid{}, err
	}

	return schedule.BuildMonth(anchor, appts, s.now()), nil
}

// Week builds the Sunday-start week grid containing anchor.
func (s *Service) Week(ctx context.Context, providerID string, anchor time.Time) (schedule.WeekGrid, error) {
	if providerID == "" {
		return schedule.WeekGrid{}, validationError("provider_id is required")
	}

	pol, err := s.policies.PolicyFor(ctx, providerID)
	if err != nil {
		return schedule.WeekGrid{}, err
	}

	weekStart := startOfWeek(anchor)
	window := domain.Interval{Start: weekStart, End: weekStart.AddDate(0, 0, 7)}
	appts, blocked, err := s.dayState(ctx, providerID, window)
	if err != nil {
		return schedule.WeekGrid{}, err
	}

	return schedule.BuildWeek(anchor, pol, appts, blocked), nil
}

// Day builds the slot-by-slot day grid with occupying appointments resolved.
func (s *Service) Day(ctx context.Context, providerID string, date time.Time) (schedule.DayGrid, error) {
	if providerID == "" {
		return schedule.DayGrid{}, validationError("provider_id is required")
	}

	pol, err := s.policies.PolicyFor(ctx, providerID)
	if err != nil {
		return schedule.DayGrid{}, err
	}

	appts, blocked, err := s.dayState(ctx, providerID, pol.DayWindow(date))
	if err != nil {
		return schedule.DayGrid{}, err
	}

	return schedule.BuildDay(date, pol, appts, blocked), nil
}

func (s *Service) dayState(ctx context.Context, providerID string, window domain.Interval) ([]domain.Appointment, []domain.BlockedRange, error) {
	appts, err := s.repo.ListAppointments(ctx, providerID, window)
	if err != nil {
		return nil, nil, err
	}
	blocked, err := s.repo.ListBlockedRanges(ctx, providerID, window)
	if err != nil {
		return nil, nil, err
	}
	return appts, blocked, nil
}

func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}
