// Package parry tracks the reflex window opened by the most recent parry tap
package parry

import (
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
)

// DefaultWindow is how long a tap protects against an incoming attack
const DefaultWindow = 180 * time.Millisecond

// Config holds the dependencies for a parry window
type Config struct {
	Clock clock.Clock

	// Window defaults to DefaultWindow when zero
	Window time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Window < 0 {
		vb.Field("Window", "must not be negative")
	}

	return vb.Build()
}

// Window remembers the last tap. Only the most recent tap counts.
type Window struct {
	clock  clock.Clock
	window time.Duration

	mu      sync.Mutex
	lastTap time.Time
	tapped  bool
}

// NewWindow creates a parry window with no tap registered
func NewWindow(cfg *Config) (*Window, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	window := cfg.Window
	if window == 0 {
		window = DefaultWindow
	}

	return &Window{
		clock:  cfg.Clock,
		window: window,
	}, nil
}

// RegisterTap overwrites the last tap with the current time
func (w *Window) RegisterTap() {
	now := w.clock.Now()

	w.mu.Lock()
	w.lastTap = now
	w.tapped = true
	w.mu.Unlock()

	slog.Debug("Parry tap registered", "at", now)
}

// IsActiveNow reports whether the last tap happened within the window
func (w *Window) IsActiveNow() bool {
	w.mu.Lock()
	lastTap, tapped := w.lastTap, w.tapped
	w.mu.Unlock()

	if !tapped {
		return false
	}
	elapsed := w.clock.Now().Sub(lastTap)
	return elapsed >= 0 && elapsed <= w.window
}

// Window returns the configured window length
func (w *Window) Window() time.Duration {
	return w.window
}
