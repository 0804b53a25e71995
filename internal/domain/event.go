package domain

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Event types published on appointment lifecycle changes. The kafka topic
// name equals the event type, one topic per event.
const (
	EventAppointmentCreated     = "appointment.created.v1"
	EventAppointmentConfirmed   = "appointment.confirmed.v1"
	EventAppointmentCompleted   = "appointment.completed.v1"
	EventAppointmentCancelled   = "appointment.cancelled.v1"
	EventAppointmentNoShow      = "appointment.no_show.v1"
	EventAppointmentRescheduled = "appointment.rescheduled.v1"
)

// EventTypeForStatus maps a newly reached status to its event type.
func EventTypeForStatus(s AppointmentStatus) string {
	switch s {
	case StatusConfirmed:
		return EventAppointmentConfirmed
	case StatusCompleted:
		return EventAppointmentCompleted
	case StatusCancelled:
		return EventAppointmentCancelled
	case StatusNoShow:
		return EventAppointmentNoShow
	default:
		return EventAppointmentCreated
	}
}

// OutboxEvent is a domain event staged in the same transaction as the state
// change it describes. A background publisher delivers staged rows to kafka
// and stamps published_at.
type OutboxEvent struct {
	bun.BaseModel `bun:"table:outbox_events"`

	ID            int64      `bun:"id,pk,autoincrement"`
	AggregateType string     `bun:"aggregate_type,notnull"`
	AggregateID   string     `bun:"aggregate_id,notnull"`
	EventType     string     `bun:"event_type,notnull"`
	Payload       []byte     `bun:"payload,notnull,type:jsonb"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:now()"`
	PublishedAt   *time.Time `bun:"published_at"`
}

// NewAppointmentEvent builds the outbox row for an appointment reaching the
// given event type. The payload carries the authoritative post-change state.
func NewAppointmentEvent(eventType string, appt Appointment) (OutboxEvent, error) {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID.String(),
		"provider_id":    appt.ProviderID,
		"client_id":      appt.ClientID,
		"service_id":     appt.ServiceID.String(),
		"status":         appt.Status,
		"start_time":     appt.StartTime.UTC().Format(time.RFC3339),
		"end_time":       appt.EndTime.UTC().Format(time.RFC3339),
		"deposit_cents":  appt.DepositCents,
	})
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		AggregateType: "appointment",
		AggregateID:   appt.ID.String(),
		EventType:     eventType,
		Payload:       payload,
	}, nil
}
