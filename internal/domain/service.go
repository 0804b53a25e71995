package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service is a bookable catalog entry. Appointments copy the price and
// duration they were booked at, so edits to a service never rewrite history.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID                     uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name                   string    `bun:"name,notnull" json:"name"`
	Category               string    `bun:"category,notnull" json:"category"`
	NominalDurationMinutes int       `bun:"nominal_duration_minutes,notnull" json:"nominal_duration_minutes"`
	BasePriceCents         int64     `bun:"base_price_cents,notnull" json:"base_price_cents"`
	CreatedAt              time.Time `bun:"created_at,notnull" json:"created_at"`
}

func (s *Service) NominalDuration() time.Duration {
	return time.Duration(s.NominalDurationMinutes) * time.Minute
}

func (s *Service) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}
