package events

import (
	"context"
	"reflect"
	"testing"
	"time"

	"inkwell/backend/internal/domain"
	"inkwell/backend/internal/store"
)

func TestSplitBrokers(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"localhost:9092", []string{"localhost:9092"}},
		{"a:9092,b:9092", []string{"a:9092", "b:9092"}},
		{" a:9092 , , b:9092 ", []string{"a:9092", "b:9092"}},
		{",,,", nil},
	}
	for _, tc := range cases {
		if got := SplitBrokers(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitBrokers(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestToMessage(t *testing.T) {
	ev := domain.OutboxEvent{
		ID:            7,
		AggregateType: "appointment",
		AggregateID:   "d94a3f0e-1111-2222-3333-444455556666",
		EventType:     domain.EventAppointmentConfirmed,
		Payload:       []byte(`{"status":"confirmed"}`),
	}

	msg := toMessage(ev)
	if msg.Topic != domain.EventAppointmentConfirmed {
		t.Errorf("topic = %q, want the event type", msg.Topic)
	}
	if string(msg.Key) != ev.AggregateID {
		t.Errorf("key = %q, want the aggregate id for per-appointment ordering", msg.Key)
	}
	if string(msg.Value) != string(ev.Payload) {
		t.Errorf("value = %q, want the staged payload", msg.Value)
	}
	if len(msg.Headers) != 2 {
		t.Fatalf("len(headers) = %d, want 2", len(msg.Headers))
	}
	if msg.Headers[0].Key != "aggregate_type" || string(msg.Headers[0].Value) != "appointment" {
		t.Errorf("header 0 = %s=%s", msg.Headers[0].Key, msg.Headers[0].Value)
	}
}

type noopOutboxRepo struct {
	calls int
}

func (r *noopOutboxRepo) InTx(ctx context.Context, fn func(ctx context.Context, tx store.OutboxTx) error) error {
	r.calls++
	return nil
}

func TestRun_DisabledWithoutBrokers(t *testing.T) {
	repo := &noopOutboxRepo{}
	p := NewPublisher(repo, nil, PublisherConfig{Brokers: "", PollEvery: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p.Run(ctx) // returns immediately rather than polling

	if repo.calls != 0 {
		t.Errorf("repo polled %d times with no brokers configured", repo.calls)
	}
}

func TestNewPublisher_Defaults(t *testing.T) {
	p := NewPublisher(&noopOutboxRepo{}, nil, PublisherConfig{})
	if p.pollEvery != 2*time.Second {
		t.Errorf("pollEvery = %v, want 2s default", p.pollEvery)
	}
	if p.batchSize != 50 {
		t.Errorf("batchSize = %d, want 50 default", p.batchSize)
	}
}
