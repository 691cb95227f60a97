package outbox

import (
	"context"
	"time"
)

// Entry is an outbox record as seen by the worker.
type Entry struct {
	ID          string
	Name        string
	Payload     []byte
	OccurredAt  time.Time
	Aggregate   string
	Headers     map[string]string
	Attempts    int
	NextAttempt time.Time
	ClaimedBy   string
	LastError   string
}

// Store is the worker's view of pending events. Claim returns nil, nil when
// nothing is due.
type Store interface {
	Claim(ctx context.Context, workerID string) (*Entry, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

// Notifier is optionally implemented by stores that can wake the worker
// before the next poll tick.
type Notifier interface {
	Notify() <-chan struct{}
}
