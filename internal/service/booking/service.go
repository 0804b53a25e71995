package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/payments"
	"inkwell/backend/internal/pricing"
	"inkwell/backend/internal/schedule"
	"inkwell/backend/internal/store"
)

// DefaultMinimumDuration is the shortest bookable appointment.
const DefaultMinimumDuration = 30 * time.Minute

// Service owns the appointment lifecycle. It is the only component that
// mutates appointment status, and every calendar write runs inside the
// store's per-provider transaction so the conflict check and the write are
// one atomic unit.
type Service struct {
	repo        store.BookingRepository
	catalog     store.CatalogRepository
	engine      *pricing.Engine
	policies    schedule.PolicyProvider
	charger     payments.Charger
	log         *slog.Logger
	minDuration time.Duration
}

type Config struct {
	MinimumDuration time.Duration
}

func NewService(repo store.BookingRepository, catalog store.CatalogRepository, engine *pricing.Engine, policies schedule.PolicyProvider, charger payments.Charger, log *slog.Logger, cfg Config) *Service {
	if charger == nil {
		charger = payments.NopCharger{}
	}
	if log == nil {
		log = slog.Default()
	}
	minDuration := cfg.MinimumDuration
	if minDuration <= 0 {
		minDuration = DefaultMinimumDuration
	}
	return &Service{
		repo:        repo,
		catalog:     catalog,
		engine:      engine,
		policies:    policies,
		charger:     charger,
		log:         log.With(slog.String("component", "booking")),
		minDuration: minDuration,
	}
}

type CreateInput struct {
	ProviderID     string
	ClientID       string
	ServiceID      uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Notes          string
	IdempotencyKey string
}

// Create books a new appointment in PENDING. The price is quoted at this
// point and frozen onto the row; later catalog edits never touch it.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	if in.ProviderID == "" {
		return domain.Appointment{}, validationError("provider_id is required")
	}
	if in.ClientID == "" {
		return domain.Appointment{}, validationError("client_id is required")
	}
	if in.ServiceID == uuid.Nil {
		return domain.Appointment{}, validationError("service_id is required")
	}

	iv, err := s.validateInterval(ctx, in.ProviderID, in.StartTime, in.EndTime)
	if err != nil {
		return domain.Appointment{}, err
	}

	svc, err := s.catalog.Get(ctx, in.ServiceID)
	if err != nil {
		return domain.Appointment{}, err
	}

	actualMinutes := int(iv.Duration() / time.Minute)
	quote := s.engine.Price(svc, actualMinutes)

	appt := domain.Appointment{
		ProviderID:      in.ProviderID,
		ClientID:        in.ClientID,
		ServiceID:       svc.ID,
		StartTime:       iv.Start,
		EndTime:         iv.End,
		Status:          domain.StatusPending,
		TotalPriceCents: quote.TotalPriceCents,
		DepositCents:    quote.DepositCents,
		Notes:           in.Notes,
	}

	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, validationError("idempotency_key too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("inkwell:create_appointment:"+in.ProviderID+":"+key))
	}

	// Excluding the deterministic id lets an idempotent retry reach the
	// insert, where the unique violation resolves to the original row
	// instead of tripping the conflict guard on it.
	var out domain.Appointment
	err = s.repo.InProviderTx(ctx, in.ProviderID, func(ctx context.Context, tx store.BookingTx) error {
		if err := guardConflicts(ctx, tx, in.ProviderID, iv, appt.ID); err != nil {
			return err
		}
		created, err := tx.CreateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		ev, err := domain.NewAppointmentEvent(domain.EventAppointmentCreated, created)
		if err != nil {
			return err
		}
		if err := tx.StageEvent(ctx, ev); err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("appointment created",
		slog.String("appointment_id", out.ID.String()),
		slog.String("provider_id", out.ProviderID),
		slog.Time("start_time", out.StartTime),
		slog.Time("end_time", out.EndTime),
	)
	return out, nil
}

// Transition moves an appointment to newStatus. Repeating the current
// status is a no-op success; anything outside the allowed transition set
// fails with InvalidTransitionError. Transitions for one appointment are
// linearized by the row lock taken inside the provider transaction.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus domain.AppointmentStatus, actor string) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	if _, ok := domain.ParseAppointmentStatus(string(newStatus)); !ok {
		return domain.Appointment{}, validationError("unknown status")
	}

	current, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	var out domain.Appointment
	var changed bool
	err = s.repo.InProviderTx(ctx, current.ProviderID, func(ctx context.Context, tx store.BookingTx) error {
		appt, err := tx.GetAppointmentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if appt.Status == newStatus {
			out = appt
			return nil
		}
		if !appt.Status.CanTransition(newStatus) {
			return &InvalidTransitionError{Current: appt.Status, Requested: newStatus}
		}

		appt.Status = newStatus
		updated, err := tx.UpdateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		ev, err := domain.NewAppointmentEvent(domain.EventTypeForStatus(newStatus), updated)
		if err != nil {
			return err
		}
		if err := tx.StageEvent(ctx, ev); err != nil {
			return err
		}
		out = updated
		changed = true
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	if changed {
		s.log.Info("appointment transitioned",
			slog.String("appointment_id", out.ID.String()),
			slog.String("status", string(out.Status)),
			slog.String("actor", actor),
		)
		if out.Status == domain.StatusConfirmed {
			if err := s.charger.CaptureDeposit(ctx, out.ID.String(), out.DepositCents); err != nil {
				s.log.Error("deposit capture failed",
					slog.Any("err", err),
					slog.String("appointment_id", out.ID.String()),
				)
			}
		}
	}
	return out, nil
}

// Reschedule moves an appointment to a new interval, re-running the
// conflict check with the appointment excluded so it never collides with
// itself. Only pending and confirmed appointments can move.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart, newEnd time.Time) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	current, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	iv, err := s.validateInterval(ctx, current.ProviderID, newStart, newEnd)
	if err != nil {
		return domain.Appointment{}, err
	}

	var out domain.Appointment
	err = s.repo.InProviderTx(ctx, current.ProviderID, func(ctx context.Context, tx store.BookingTx) error {
		appt, err := tx.GetAppointmentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !appt.Status.Blocking() {
			return policyError("appointment in status %s can no longer be rescheduled", appt.Status)
		}
		if err := guardConflicts(ctx, tx, appt.ProviderID, iv, appt.ID); err != nil {
			return err
		}

		appt.StartTime = iv.Start
		appt.EndTime = iv.End
		updated, err := tx.UpdateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		ev, err := domain.NewAppointmentEvent(domain.EventAppointmentRescheduled, updated)
		if err != nil {
			return err
		}
		if err := tx.StageEvent(ctx, ev); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("appointment rescheduled",
		slog.String("appointment_id", out.ID.String()),
		slog.Time("start_time", out.StartTime),
		slog.Time("end_time", out.EndTime),
	)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	return s.repo.GetAppointment(ctx, id)
}

func (s *Service) List(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if !end.After(start) {
		return nil, validationError("window_end must be after window_start")
	}
	return s.repo.ListAppointments(ctx, providerID, domain.Interval{Start: start, End: end})
}

// CreateBlockedRange records provider unavailability. A block may overlap
// existing bookings: blocking out a vacation does not cancel appointments,
// it only stops new ones from landing there.
func (s *Service) CreateBlockedRange(ctx context.Context, providerID string, start, end time.Time, reason string) (domain.BlockedRange, error) {
	if providerID == "" {
		return domain.BlockedRange{}, validationError("provider_id is required")
	}
	startUTC := start.UTC()
	endUTC := end.UTC()
	if !endUTC.After(startUTC) {
		return domain.BlockedRange{}, validationError("end_time must be after start_time")
	}

	br := domain.BlockedRange{
		ProviderID: providerID,
		StartTime:  startUTC,
		EndTime:    endUTC,
		Reason:     reason,
	}

	var out domain.BlockedRange
	err := s.repo.InProviderTx(ctx, providerID, func(ctx context.Context, tx store.BookingTx) error {
		created, err := tx.CreateBlockedRange(ctx, br)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.BlockedRange{}, err
	}

	s.log.Info("blocked range created",
		slog.String("blocked_range_id", out.ID.String()),
		slog.String("provider_id", providerID),
	)
	return out, nil
}

// DeleteBlockedRange removes a block owned by providerID. A block belonging
// to another provider reads as not found rather than forbidden.
func (s *Service) DeleteBlockedRange(ctx context.Context, providerID string, id uuid.UUID) error {
	if providerID == "" {
		return validationError("provider_id is required")
	}
	if id == uuid.Nil {
		return validationError("blocked_range_id is required")
	}
	return s.repo.InProviderTx(ctx, providerID, func(ctx context.Context, tx store.BookingTx) error {
		return tx.DeleteBlockedRange(ctx, providerID, id)
	})
}

// validateInterval normalizes to UTC and enforces ordering, the minimum
// duration, and the provider's business hours.
func (s *Service) validateInterval(ctx context.Context, providerID string, start, end time.Time) (domain.Interval, error) {
	iv := domain.Interval{Start: start.UTC(), End: end.UTC()}
	if !iv.End.After(iv.Start) {
		return domain.Interval{}, validationError("end_time must be after start_time")
	}
	if iv.Duration() < s.minDuration {
		return domain.Interval{}, policyError("appointment must be at least %d minutes", int(s.minDuration/time.Minute))
	}

	pol, err := s.policies.PolicyFor(ctx, providerID)
	if err != nil {
		return domain.Interval{}, err
	}
	if !pol.WithinHours(iv) {
		return domain.Interval{}, policyError("appointment must fall within business hours (%02d:00-%02d:00)", pol.StartHour, pol.EndHour)
	}
	return iv, nil
}

// guardConflicts is the conflict guard: inside the provider transaction it
// checks iv against every blocking appointment and blocked range, reporting
// the first occupied interval hit.
func guardConflicts(ctx context.Context, tx store.BookingTx, providerID string, iv domain.Interval, excludeID uuid.UUID) error {
	busy, err := tx.ListBusyIntervals(ctx, providerID, iv, excludeID)
	if err != nil {
		return err
	}
	if hit, ok := domain.OverlapsAny(iv, busy); ok {
		return &ConflictError{Start: hit.Start, End: hit.End}
	}
	return nil
}
