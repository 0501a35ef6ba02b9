package sleeper

import (
	"context"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
)

// Limiter enforces a minimum spacing between upstream calls, shared by every
// caller in the process. It is constructed once in main and injected so
// tests can use a mock clock or a zero interval.
type Limiter struct {
	clock    clock.Clock
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func NewLimiter(c clock.Clock, interval time.Duration) *Limiter {
	return &Limiter{clock: c, interval: interval}
}

// Wait blocks until this caller's reserved slot arrives or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	d := l.reserve()
	if d <= 0 {
		return nil
	}

	select {
	case <-l.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reserve claims the next available slot and returns how long the caller
// must wait for it.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.next.Before(now) {
		l.next = now
	}
	d := l.next.Sub(now)
	l.next = l.next.Add(l.interval)
	return d
}
