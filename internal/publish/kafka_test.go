package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hmoradi/svcready/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_KeyAndPayload(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	rec := &domain.ProbeRecord{
		ID:           "r1",
		Kind:         domain.KindValkey,
		Host:         "localhost",
		Port:         6379,
		State:        domain.StateExhausted,
		AttemptsUsed: 3,
		Check:        "tcp",
		Diagnostic:   "connection refused",
		CheckedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), rec); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(w.msgs))
	}

	if got, want := string(w.msgs[0].Key), "valkey/localhost:6379"; got != want {
		t.Fatalf("key %q, want %q", got, want)
	}

	var back domain.ProbeRecord
	if err := json.Unmarshal(w.msgs[0].Value, &back); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if back.Kind != rec.Kind || back.State != rec.State || back.AttemptsUsed != 3 {
		t.Fatalf("payload round-trip mismatch: %+v", back)
	}
}

func TestPublisher_WriteErrorPropagates(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Publisher{writer: w}
	if err := p.Publish(context.Background(), &domain.ProbeRecord{Kind: domain.KindNATS, Host: "h", Port: 4222}); err == nil {
		t.Fatalf("want write error to propagate")
	}
}

func TestPublisher_ClosePassesThrough(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Fatalf("underlying writer not closed")
	}
}
