package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medrec/medical-records-api/internal/core/ports"
)

type captureRecorder struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (r *captureRecorder) Record(_ context.Context, event ports.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *captureRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestDispatcher_RecordsEnqueuedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := &captureRecorder{}
	d := NewDispatcher(2, recorder, zerolog.Nop())
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Enqueue(ports.AuditEvent{Actor: "alice", Action: "login", Occurred: time.Now()})
	}

	deadline := time.After(2 * time.Second)
	for recorder.count() < 10 {
		select {
		case <-deadline:
			t.Fatalf("expected 10 recorded events, got %d", recorder.count())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDispatcher_ShardByActorIsStable(t *testing.T) {
	d := NewDispatcher(4, &captureRecorder{}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
}
