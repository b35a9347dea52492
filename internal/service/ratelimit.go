package service

import (
	"sync"
	"time"
)

// UploadLimiter is an in-memory per-user rate limiter using the token
// bucket algorithm, applied to mutating endpoints (uploads, reports).
// It is safe for concurrent use. Stale buckets are automatically cleaned up.
type UploadLimiter struct {
	mu       sync.Mutex
	buckets  map[int64]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewUploadLimiter creates a rate limiter that allows up to capacity
// operations per user, refilling at the given rate (tokens per second).
// It starts a background goroutine that periodically removes stale buckets.
func NewUploadLimiter(rate, capacity float64) *UploadLimiter {
	l := &UploadLimiter{
		buckets:  make(map[int64]*bucket),
		rate:     rate,
		capacity: capacity,
	}
	go l.cleanup()
	return l
}

// Allow reports whether the given user is allowed to proceed under the rate
// limit. Each call consumes one token. Returns false if the bucket is empty.
func (l *UploadLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[userID]
	if !ok {
		b = &bucket{tokens: l.capacity, last: time.Now()}
		l.buckets[userID] = b
	}

	now := time.Now()
	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*l.rate, l.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// cleanup runs periodically and removes buckets that haven't been accessed in 10 minutes.
func (l *UploadLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for userID, b := range l.buckets {
			if b.last.Before(cutoff) {
				delete(l.buckets, userID)
			}
		}
		l.mu.Unlock()
	}
}
