// Package ratelimit implements the per-sender sliding-window admission limiter
// applied to webhook events.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 100
	DefaultWindow      = time.Minute
)

// Limiter admits at most maxRequests per identifier within any trailing window.
// State lives only for the lifetime of the process.
type Limiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

type Option func(*Limiter)

// WithClock replaces the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter. Non-positive arguments fall back to the defaults.
func New(maxRequests int, window time.Duration, opts ...Option) *Limiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records an admission for identifier and reports whether it was
// admitted. A rejected call leaves the stored history untouched.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.prune(l.requests[identifier], now)
	if len(valid) >= l.maxRequests {
		return false
	}

	l.requests[identifier] = append(valid, now)
	return true
}

// Cleanup drops identifiers with no admissions left inside the window and
// returns how many were removed.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, times := range l.requests {
		valid := l.prune(times, now)
		if len(valid) == 0 {
			delete(l.requests, id)
			removed++
			continue
		}
		l.requests[id] = valid
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

// prune returns the suffix of times still inside the window. Timestamps are
// appended in order, so the first valid entry splits the slice.
func (l *Limiter) prune(times []time.Time, now time.Time) []time.Time {
	for i, t := range times {
		if now.Sub(t) < l.window {
			return times[i:]
		}
	}
	return nil
}
