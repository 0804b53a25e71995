package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// allowedTransitions lists the reachable next statuses per current status.
// Terminal statuses have no entry.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return AppointmentStatus(s), true
	}
	return "", false
}

func (s AppointmentStatus) Terminal() bool {
	_, ok := allowedTransitions[s]
	return !ok
}

// CanTransition reports whether to is reachable from s. A same-status
// transition is not reachable; callers treat it as an idempotent no-op.
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s, in a stable order.
func (s AppointmentStatus) AllowedTransitions() []AppointmentStatus {
	next := allowedTransitions[s]
	out := make([]AppointmentStatus, len(next))
	copy(out, next)
	return out
}

// Blocking reports whether an appointment in this status occupies its
// interval for conflict purposes.
func (s AppointmentStatus) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	ProviderID      string            `bun:"provider_id,notnull" json:"provider_id"`
	ClientID        string            `bun:"client_id,notnull" json:"client_id"`
	ServiceID       uuid.UUID         `bun:"service_id,notnull,type:uuid" json:"service_id"`
	StartTime       time.Time         `bun:"start_time,notnull" json:"start_time"`
	EndTime         time.Time         `bun:"end_time,notnull" json:"end_time"`
	Status          AppointmentStatus `bun:"status,notnull" json:"status"`
	TotalPriceCents int64             `bun:"total_price_cents,notnull" json:"total_price_cents"`
	DepositCents    int64             `bun:"deposit_cents,notnull" json:"deposit_cents"`
	Notes           string            `bun:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt       time.Time         `bun:"updated_at,notnull" json:"updated_at"`
}

func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// BlockedRange is provider-declared unavailability. It occupies its interval
// exactly like a confirmed appointment but carries no client, service or
// price, and has no lifecycle.
type BlockedRange struct {
	bun.BaseModel `bun:"table:blocked_ranges"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ProviderID string    `bun:"provider_id,notnull" json:"provider_id"`
	StartTime  time.Time `bun:"start_time,notnull" json:"start_time"`
	EndTime    time.Time `bun:"end_time,notnull" json:"end_time"`
	Reason     string    `bun:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

func (b *BlockedRange) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

func (b *BlockedRange) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}
