package store

import (
	"context"

	"github.com/google/uuid"

	"inkwell/backend/internal/domain"
)

// BookingTx is the unit of work for calendar mutations. Implementations run
// fn with the provider's calendar locked, so a conflict check followed by a
// write is atomic with respect to concurrent requests for the same provider.
type BookingTx interface {
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	GetAppointmentForUpdate(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	// ListBusyIntervals returns the intervals occupied by pending/confirmed
	// appointments and blocked ranges that overlap window, excluding the
	// appointment with excludeID (uuid.Nil excludes nothing).
	ListBusyIntervals(ctx context.Context, providerID string, window domain.Interval, excludeID uuid.UUID) ([]domain.Interval, error)

	CreateBlockedRange(ctx context.Context, br domain.BlockedRange) (domain.BlockedRange, error)
	DeleteBlockedRange(ctx context.Context, providerID string, id uuid.UUID) error

	// StageEvent writes an outbox row in the same transaction as the state
	// change it describes.
	StageEvent(ctx context.Context, ev domain.OutboxEvent) error
}

type BookingRepository interface {
	// InProviderTx serializes fn against all other calendar writes for the
	// same provider.
	InProviderTx(ctx context.Context, providerID string, fn func(ctx context.Context, tx BookingTx) error) error

	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListAppointments(ctx context.Context, providerID string, window domain.Interval) ([]domain.Appointment, error)
	ListBlockedRanges(ctx context.Context, providerID string, window domain.Interval) ([]domain.BlockedRange, error)
	GetBlockedRange(ctx context.Context, id uuid.UUID) (domain.BlockedRange, error)
}
