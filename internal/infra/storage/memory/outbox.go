package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	appoutbox "roomdesk/internal/app/outbox"
	infraoutbox "roomdesk/internal/infra/outbox"
)

// Outbox keeps pending events until the worker publishes them. Sent entries
// are dropped.
type Outbox struct {
	mu      sync.Mutex
	entries map[string]*infraoutbox.Entry
	claimed map[string]bool
	wake    chan struct{}
	now     func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{
		entries: make(map[string]*infraoutbox.Entry),
		claimed: make(map[string]bool),
		wake:    make(chan struct{}, 1),
		now:     time.Now,
	}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	headers := make(map[string]string, len(record.Headers))
	for k, v := range record.Headers {
		headers[k] = v
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[record.ID] = &infraoutbox.Entry{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     append([]byte(nil), record.Payload...),
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     headers,
		NextAttempt: o.now().UTC(),
	}
	return nil
}

// Flush wakes the worker without blocking.
func (o *Outbox) Flush(ctx context.Context) error {
	select {
	case o.wake <- struct{}{}:
	default:
	}
	return nil
}

func (o *Outbox) Notify() <-chan struct{} {
	return o.wake
}

// Claim hands out the oldest due, unclaimed entry.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.Entry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()
	var due []*infraoutbox.Entry
	for id, entry := range o.entries {
		if o.claimed[id] || entry.NextAttempt.After(now) {
			continue
		}
		due = append(due, entry)
	}
	if len(due) == 0 {
		return nil, nil
	}
	sort.Slice(due, func(i, j int) bool { return due[i].OccurredAt.Before(due[j].OccurredAt) })
	picked := due[0]
	o.claimed[picked.ID] = true
	picked.ClaimedBy = workerID
	clone := *picked
	return &clone, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, id)
	delete(o.claimed, id)
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.entries[id]
	if !ok {
		return nil
	}
	entry.Attempts++
	entry.NextAttempt = next.UTC()
	entry.LastError = errMsg
	entry.ClaimedBy = ""
	delete(o.claimed, id)
	return nil
}

// Pending reports how many events have not been published yet.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

var (
	_ appoutbox.Outbox     = (*Outbox)(nil)
	_ infraoutbox.Store    = (*Outbox)(nil)
	_ infraoutbox.Notifier = (*Outbox)(nil)
)
