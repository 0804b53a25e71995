package store

import (
	"context"

	"github.com/google/uuid"

	"inkwell/backend/internal/domain"
)

// CatalogRepository is the read-only service catalog lookup.
type CatalogRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
}
