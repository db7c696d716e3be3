package ports

import (
	"context"
	"time"
)

// AuditEvent records one security-relevant action against the API.
type AuditEvent struct {
	Actor     string
	Action    string
	PatientID int64
	Occurred  time.Time
}

// AuditSink accepts events for asynchronous recording. Enqueue must not block
// the request path beyond channel buffering.
type AuditSink interface {
	Enqueue(event AuditEvent)
}

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

// RateLimiter answers whether another request is allowed under key's window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
