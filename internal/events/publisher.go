package events

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/store"
)

// Publisher drains the outbox to kafka. Rows are fetched and marked
// published inside one transaction, so a crash between fetch and commit
// re-delivers rather than drops (consumers must tolerate duplicates).
type Publisher struct {
	repo      store.OutboxRepository
	log       *slog.Logger
	brokers   []string
	pollEvery time.Duration
	batchSize int
}

type PublisherConfig struct {
	Brokers   string
	PollEvery time.Duration
	BatchSize int
}

func NewPublisher(repo store.OutboxRepository, log *slog.Logger, cfg PublisherConfig) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Publisher{
		repo:      repo,
		log:       log.With(slog.String("component", "events.publisher")),
		brokers:   SplitBrokers(cfg.Brokers),
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	if len(p.brokers) == 0 {
		p.log.Warn("outbox publisher disabled (no kafka brokers configured)")
		return
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(p.brokers...),
		Balancer: &kafka.Hash{},
	}
	defer writer.Close()

	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.publishBatch(ctx, writer); err != nil {
				p.log.Error("outbox publish failed", slog.Any("err", err))
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context, writer *kafka.Writer) error {
	return p.repo.InTx(ctx, func(ctx context.Context, tx store.OutboxTx) error {
		records, err := tx.FetchUnpublished(ctx, p.batchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(records))
		for _, r := range records {
			msgs = append(msgs, toMessage(r))
		}
		if err := writer.WriteMessages(ctx, msgs...); err != nil {
			return err
		}

		ids := make([]int64, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		if err := tx.MarkPublished(ctx, ids); err != nil {
			return err
		}

		p.log.Debug("outbox batch published", slog.Int("count", len(records)))
		return nil
	})
}

func toMessage(ev domain.OutboxEvent) kafka.Message {
	return kafka.Message{
		Topic: ev.EventType,
		Key:   []byte(ev.AggregateID),
		Value: ev.Payload,
		Headers: []kafka.Header{
			{Key: "aggregate_type", Value: []byte(ev.AggregateType)},
			{Key: "event_type", Value: []byte(ev.EventType)},
		},
	}
}

// SplitBrokers parses a comma-separated broker list, dropping empties.
func SplitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}
