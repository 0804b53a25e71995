package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *BookingRepo) InProviderTx(ctx context.Context, providerID string, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderCalendar(ctx, tx, providerID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

// lockProviderCalendar takes a transaction-scoped advisory lock keyed on the
// provider, serializing every check-then-write sequence for that calendar.
func lockProviderCalendar(ctx context.Context, tx bun.Tx, providerID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", providerID).Exec(ctx)
	return err
}

func (r *BookingRepo) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *BookingRepo) ListAppointments(ctx context.Context, providerID string, window domain.Interval) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("start_time < ?", window.End).
		Where("end_time > ?", window.Start).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListBlockedRanges(ctx context.Context, providerID string, window domain.Interval) ([]domain.BlockedRange, error) {
	var rows []domain.BlockedRange
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("start_time < ?", window.End).
		Where("end_time > ?", window.Start).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) GetBlockedRange(ctx context.Context, id uuid.UUID) (domain.BlockedRange, error) {
	var br domain.BlockedRange
	err := r.db.NewSelect().
		Model(&br).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BlockedRange{}, store.ErrNotFound
		}
		return domain.BlockedRange{}, err
	}
	return br, nil
}

func (r bookingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt

	_, err := r.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
				return domain.Appointment{}, store.ErrConflict
			}
			if pgErr.Code == "23505" {
				// Deterministic id from an idempotency key: a duplicate insert
				// replays the original create iff the payload matches.
				var existing domain.Appointment
				selectErr := r.tx.NewSelect().
					Model(&existing).
					Where("id = ?", m.ID).
					Limit(1).
					Scan(ctx)
				if selectErr != nil {
					return domain.Appointment{}, err
				}

				if existing.ProviderID != appt.ProviderID ||
					existing.ClientID != appt.ClientID ||
					existing.ServiceID != appt.ServiceID ||
					existing.Notes != appt.Notes ||
					!existing.StartTime.Equal(appt.StartTime) ||
					!existing.EndTime.Equal(appt.EndTime) {
					return domain.Appointment{}, store.ErrIdempotencyConflict
				}

				return existing, nil
			}
		}
		return domain.Appointment{}, err
	}

	return m, nil
}

func (r bookingTx) GetAppointmentForUpdate(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.tx.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r bookingTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt

	res, err := r.tx.NewUpdate().
		Model(&m).
		WherePK().
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func (r bookingTx) ListBusyIntervals(ctx context.Context, providerID string, window domain.Interval, excludeID uuid.UUID) ([]domain.Interval, error) {
	q := r.tx.NewSelect().
		Model((*domain.Appointment)(nil)).
		Column("start_time", "end_time").
		Where("provider_id = ?", providerID).
		Where("status IN (?)", bun.In([]domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed})).
		Where("start_time < ?", window.End).
		Where("end_time > ?", window.Start)
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}

	var appts []domain.Appointment
	if err := q.Scan(ctx, &appts); err != nil {
		return nil, err
	}

	var blocked []domain.BlockedRange
	err := r.tx.NewSelect().
		Model(&blocked).
		Column("start_time", "end_time").
		Where("provider_id = ?", providerID).
		Where("start_time < ?", window.End).
		Where("end_time > ?", window.Start).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Interval, 0, len(appts)+len(blocked))
	for i := range appts {
		out = append(out, appts[i].Interval())
	}
	for i := range blocked {
		out = append(out, blocked[i].Interval())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r bookingTx) CreateBlockedRange(ctx context.Context, br domain.BlockedRange) (domain.BlockedRange, error) {
	m := br
	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.BlockedRange{}, err
	}
	return m, nil
}

func (r bookingTx) DeleteBlockedRange(ctx context.Context, providerID string, id uuid.UUID) error {
	res, err := r.tx.NewDelete().
		Model((*domain.BlockedRange)(nil)).
		Where("provider_id = ?", providerID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r bookingTx) StageEvent(ctx context.Context, ev domain.OutboxEvent) error {
	m := ev
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.tx.NewInsert().Model(&m).Exec(ctx)
	return err
}
