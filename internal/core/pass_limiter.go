package core

// pass_limiter.go bounds how many passes run at once across HTTP clients.
//
// A pass holds the whole upload plus its Dataset in memory, so the server
// admits at most maxConcurrent of them. Requests that find every slot busy
// wait up to maxWait and then fail with ErrTooManyPasses. WaitForDrain lets
// shutdown block until in-flight passes finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyPasses is returned when all pass slots stay occupied for the
// whole wait window.
var ErrTooManyPasses = errors.New("too many concurrent passes, please try again later")

// DefaultMaxConcurrentPasses is the default limit for parallel passes.
const DefaultMaxConcurrentPasses = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// PassLimiter is a counting semaphore over passes.
type PassLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewPassLimiter creates a limiter admitting maxConcurrent passes. Non-positive
// arguments fall back to the defaults.
func NewPassLimiter(maxConcurrent int, maxWait time.Duration) *PassLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentPasses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &PassLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release a
// slot it acquired.
func (l *PassLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Caller cancellation wins over our own timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyPasses
	}
}

// TryAcquire takes a slot without blocking.
func (l *PassLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *PassLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.slots
}

// ActiveCount returns the number of passes currently holding a slot.
func (l *PassLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *PassLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *PassLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no pass holds a slot or ctx is done.
func (l *PassLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PassLimiterStatus is a snapshot of limiter state.
type PassLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for /healthz.
func (l *PassLimiter) Status() PassLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return PassLimiterStatus{
		Active:        active,
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
	}
}
