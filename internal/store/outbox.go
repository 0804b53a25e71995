package store

import (
	"context"

	"inkwell/backend/internal/domain"
)

// OutboxTx is the publisher's view of the outbox inside one transaction:
// fetch a batch of staged rows (locked against other publishers), hand them
// off, mark them published, commit.
type OutboxTx interface {
	FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

type OutboxRepository interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx OutboxTx) error) error
}
