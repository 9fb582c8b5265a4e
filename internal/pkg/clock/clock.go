// Package clock provides time utilities for the application
package clock

import "time"

// Clock provides time functionality. Everything in the combat core that
// measures or waits on time goes through a Clock so tests can run on
// virtual time.
type Clock interface {
	Now() time.Time
	// After delivers the clock's time once d has elapsed.
	// A non-positive d fires immediately.
	After(d time.Duration) <-chan time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// After waits for the duration to elapse on the wall clock
func (c *Real) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}
