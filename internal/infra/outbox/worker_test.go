package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	mu   sync.Mutex
	err  error
	sent []published
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	pending []*Entry
	sent    []string
	failed  map[string]string
}

func (s *fakeStore) Claim(context.Context, string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, nil
	}
	e := s.pending[0]
	s.pending = s.pending[1:]
	return e, nil
}

func (s *fakeStore) MarkSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id string, _ time.Time, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed == nil {
		s.failed = map[string]string{}
	}
	s.failed[id] = msg
	return nil
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	occurred := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{pending: []*Entry{
		{ID: "e1", Name: "booking.confirmed", Aggregate: "b1", Payload: []byte(`{"booking_id":"b1"}`), OccurredAt: occurred, Headers: map[string]string{"traceparent": "00-abc"}},
	}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, TopicPrefix: "dev."}

	require.NoError(t, w.Drain(context.Background()))
	require.Len(t, producer.sent, 1)
	msg := producer.sent[0]
	assert.Equal(t, "dev.booking.events.v1", msg.topic)
	assert.Equal(t, "b1", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "00-abc", msg.headers["traceparent"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "booking.confirmed.v1", evt["type"])
	assert.Equal(t, "app://roomdesk", evt["source"])
	assert.Equal(t, map[string]any{"booking_id": "b1"}, evt["data"])
	assert.Equal(t, []string{"e1"}, store.sent)
}

func TestWorkerMarksFailures(t *testing.T) {
	store := &fakeStore{pending: []*Entry{
		{ID: "bad", Name: "booking.confirmed", Payload: []byte(`not json`)},
		{ID: "down", Name: "booking.confirmed", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer}

	processed, err := w.processOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	producer.err = errors.New("broker down")
	processed, err = w.processOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)

	assert.Empty(t, store.sent)
	assert.Contains(t, store.failed, "bad")
	assert.Equal(t, "broker down", store.failed["down"])
}

func TestWorkerRequiresDependencies(t *testing.T) {
	err := (&Worker{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&Worker{Store: &fakeStore{}, Producer: &fakeProducer{}, Interval: time.Millisecond}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTopicAndBackoff(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, time.Minute}}
	assert.Equal(t, "booking.events.v1", w.topicFor("booking.confirmed"))
	assert.Equal(t, "plain.events.v1", w.topicFor("plain"))

	before := time.Now()
	assert.WithinDuration(t, before.Add(time.Second), w.nextRetry(0), 500*time.Millisecond)
	assert.WithinDuration(t, before.Add(time.Minute), w.nextRetry(5), 500*time.Millisecond)
}
