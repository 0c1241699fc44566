// Package ratelimit guards the external AI provider from overuse with a
// sliding-window call budget.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultCallsPerWindow matches the provider free-tier budget.
	DefaultCallsPerWindow = 10

	window = time.Minute
)

// Limiter tracks call timestamps within a trailing one-minute window.
// Safe for concurrent use.
type Limiter struct {
	mu    sync.Mutex
	limit int
	calls []time.Time
	now   func() time.Time
}

func New(limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultCallsPerWindow
	}
	return &Limiter{limit: limit, now: time.Now}
}

// CanMakeCall reports whether fewer than the configured number of calls
// were recorded within the trailing window. Expired records are dropped.
func (l *Limiter) CanMakeCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	return len(l.calls) < l.limit
}

// RecordCall registers one unit against the budget.
func (l *Limiter) RecordCall() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, l.now())
}

func (l *Limiter) prune() {
	cutoff := l.now().Add(-window)
	kept := l.calls[:0]
	for _, call := range l.calls {
		if call.After(cutoff) {
			kept = append(kept, call)
		}
	}
	l.calls = kept
}
