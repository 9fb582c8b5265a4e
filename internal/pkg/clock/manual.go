package clock

import (
	"context"
	"sync"
	"time"
)

// Manual is a virtual clock. Time only moves when Advance is called, or on
// every After call when auto-advance is enabled.
type Manual struct {
	mu          sync.Mutex
	cond        *sync.Cond
	now         time.Time
	autoAdvance bool
	waiters     []*waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewManual creates a virtual clock that starts at start and only moves on Advance
func NewManual(start time.Time) *Manual {
	m := &Manual{now: start}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// NewAutoAdvance creates a virtual clock where every After call jumps time
// forward by the requested duration and fires immediately.
func NewAutoAdvance(start time.Time) *Manual {
	m := NewManual(start)
	m.autoAdvance = true
	return m
}

// Now returns the current virtual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After registers a waiter that fires once virtual time reaches now+d
func (m *Manual) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.autoAdvance && d > 0 {
		m.now = m.now.Add(d)
		m.fireLocked()
	}

	if d <= 0 || m.autoAdvance {
		ch <- m.now
		return ch
	}

	m.waiters = append(m.waiters, &waiter{deadline: m.now.Add(d), ch: ch})
	m.cond.Broadcast()
	return ch
}

// Advance moves virtual time forward and fires every waiter whose deadline passed
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
	m.fireLocked()
}

// Pending returns the number of waiters that have not fired yet
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

// BlockUntil waits until at least n waiters are pending or ctx ends.
// Tests use it to make sure a goroutine is parked on After before advancing.
func (m *Manual) BlockUntil(ctx context.Context, n int) error {
	stop := context.AfterFunc(ctx, func() {
		m.mu.Lock()
		m.cond.Broadcast()
		m.mu.Unlock()
	})
	defer stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.waiters) < n {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.cond.Wait()
	}
	return nil
}

func (m *Manual) fireLocked() {
	remaining := m.waiters[:0]
	for _, w := range m.waiters {
		if !w.deadline.After(m.now) {
			w.ch <- m.now
			continue
		}
		remaining = append(remaining, w)
	}
	m.waiters = remaining
	m.cond.Broadcast()
}
