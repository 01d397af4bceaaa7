package bucket

import (
	"context"
	"sync"
	"time"

	"jotter/internal/ratelimit/models"
)

// InMemoryBucketStore keeps one sliding window per key. Use RedisBucketStore
// when several server processes must share limits.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*slidingWindow
}

type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

func (sw *slidingWindow) tryConsume(cost, limit int, now time.Time) (allowed bool, remaining int, resetAt time.Time) {
	sw.cleanupExpired(now)

	if len(sw.timestamps)+cost > limit {
		if len(sw.timestamps) == 0 {
			return false, 0, now.Add(sw.window)
		}
		return false, 0, sw.timestamps[0].Add(sw.window)
	}

	for range cost {
		sw.timestamps = append(sw.timestamps, now)
	}
	return true, limit - len(sw.timestamps), sw.timestamps[0].Add(sw.window)
}

func (sw *slidingWindow) cleanupExpired(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{buckets: make(map[string]*slidingWindow)}
}

// Allow records one hit for key at now and reports whether it fits in limit
// hits per window.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		b = &slidingWindow{window: window}
		s.buckets[key] = b
	}
	allowed, remaining, resetAt := b.tryConsume(1, limit, now)

	return &models.Result{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: models.RetryAfterSeconds(allowed, resetAt, now),
	}, nil
}

// Sweep drops buckets with no hits left in their window.
func (s *InMemoryBucketStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, b := range s.buckets {
		b.cleanupExpired(now)
		if len(b.timestamps) == 0 {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}
