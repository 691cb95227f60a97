package cache

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"roomdesk/internal/app/middleware"
)

const defaultMaxSize = 10_000

// IdempotencyStore keeps command outcomes in a local LRU with a TTL.
// Reservation checks and writes are serialized by mu; ccache itself has no
// set-if-absent.
type IdempotencyStore struct {
	mu    sync.Mutex
	cache *ccache.Cache[middleware.IdempotencyRecord]
	ttl   time.Duration
}

func NewIdempotencyStore(ttl time.Duration, maxSize int64) *IdempotencyStore {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{
		cache: ccache.New(ccache.Configure[middleware.IdempotencyRecord]().MaxSize(maxSize)),
		ttl:   ttl,
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.live(key)
	return rec, ok, nil
}

func (s *IdempotencyStore) Reserve(ctx context.Context, rec middleware.IdempotencyRecord, lease time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(rec.Key); ok {
		return false, nil
	}
	if lease <= 0 || lease > s.ttl {
		lease = s.ttl
	}
	s.cache.Set(rec.Key, rec, lease)
	return true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(rec.Key, rec, s.ttl)
	return nil
}

// Release removes key only while it is still a pending reservation.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.live(key); ok && rec.Pending {
		s.cache.Delete(key)
	}
	return nil
}

func (s *IdempotencyStore) live(key string) (middleware.IdempotencyRecord, bool) {
	item := s.cache.Get(key)
	if item == nil || item.Expired() {
		return middleware.IdempotencyRecord{}, false
	}
	return item.Value(), true
}

// Close stops the cache's background worker.
func (s *IdempotencyStore) Close() {
	s.cache.Stop()
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
