package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a per-process sliding-window limiter.
type MemoryLimiter struct {
	limit   int
	window  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	clients map[string][]time.Time
	calls   int
}

// NewMemoryLimiter allows limit events per key within any window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return NewMemoryLimiterWithClock(limit, window, time.Now)
}

// NewMemoryLimiterWithClock is NewMemoryLimiter with an injectable clock.
func NewMemoryLimiterWithClock(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		clients: make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	l.calls++
	if l.calls%1024 == 0 {
		l.sweep(windowStart)
	}

	// Remove timestamps outside the window
	timestamps := l.clients[key]
	valid := 0
	for valid < len(timestamps) && !timestamps[valid].After(windowStart) {
		valid++
	}
	timestamps = timestamps[valid:]

	if len(timestamps) >= l.limit {
		l.clients[key] = timestamps
		return Result{
			Allowed:   false,
			Limit:     l.limit,
			Remaining: 0,
			ResetAt:   timestamps[0].Add(l.window),
		}, nil
	}

	timestamps = append(timestamps, now)
	l.clients[key] = timestamps
	return Result{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(timestamps),
		ResetAt:   timestamps[0].Add(l.window),
	}, nil
}

// sweep drops keys with no activity inside the window. Callers hold l.mu.
func (l *MemoryLimiter) sweep(windowStart time.Time) {
	for key, ts := range l.clients {
		if len(ts) == 0 || !ts[len(ts)-1].After(windowStart) {
			delete(l.clients, key)
		}
	}
}
