// Package ratelimit enforces a minimum interval between accepted requests
// per user. One accepted request per cooldown, no queuing, no burst
// allowance. Only acceptance records a timestamp, so rejections never
// extend the wait.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks the last accepted request per user.
type Limiter struct {
	cooldown time.Duration

	mu   sync.Mutex
	last map[string]time.Time

	now func() time.Time // injectable for tests
}

// New creates a Limiter with the given cooldown window.
func New(cooldown time.Duration) *Limiter {
	return &Limiter{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// TryAccept reports whether the user's request is accepted. A user with no
// record is always accepted. On rejection, wait is the exact remaining
// cooldown and no state changes, so hammering does not push the window out.
func (l *Limiter) TryAccept(userID string) (ok bool, wait time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if accepted, exists := l.last[userID]; exists {
		elapsed := now.Sub(accepted)
		if elapsed < l.cooldown {
			return false, l.cooldown - elapsed
		}
	}

	l.last[userID] = now
	return true, 0
}

// Purge drops records older than the given age, bounding the table for
// long-running processes. Records younger than the cooldown are never
// purged regardless of age argument.
func (l *Limiter) Purge(olderThan time.Duration) {
	if olderThan < l.cooldown {
		olderThan = l.cooldown
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-olderThan)
	for userID, accepted := range l.last {
		if accepted.Before(cutoff) {
			delete(l.last, userID)
		}
	}
}

// Len reports the number of tracked users.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
