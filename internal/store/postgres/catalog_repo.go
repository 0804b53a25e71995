package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/store"
)

type CatalogRepo struct {
	db *bun.DB
}

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) Get(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var svc domain.Service
	err := r.db.NewSelect().
		Model(&svc).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, store.ErrNotFound
		}
		return domain.Service{}, err
	}
	return svc, nil
}

func (r *CatalogRepo) List(ctx context.Context) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("category ASC, name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
