// Package sequencer plays timelines of labeled, timed steps one at a time.
//
// Starting a timeline cancels whatever is playing; nothing is queued. For each
// step the sequencer reports StepStarted, runs the callback, holds for the
// rate-scaled duration on the injected clock, then reports StepEnded. A
// stopped timeline never reports another event and never runs another
// callback.
package sequencer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
)

// Playback rate defaults
const (
	DefaultRate    = 1.0
	DefaultMinRate = 0.2
	DefaultMaxRate = 2.0
)

// Observer receives step boundaries in execution order. Implementations must
// not block on the sequencer they observe.
type Observer interface {
	StepStarted(ctx context.Context, ev StepEvent)
	StepEnded(ctx context.Context, ev StepEvent)
}

// Config holds the dependencies for a sequencer
type Config struct {
	Clock clock.Clock

	// Observer is optional
	Observer Observer

	// Rate multiplies every step duration. Zero values fall back to defaults.
	Rate    float64
	MinRate float64
	MaxRate float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Rate < 0 {
		vb.Field("Rate", "must not be negative")
	}
	if c.MinRate < 0 {
		vb.Field("MinRate", "must not be negative")
	}
	if c.MaxRate < 0 {
		vb.Field("MaxRate", "must not be negative")
	}
	if c.MinRate > 0 && c.MaxRate > 0 && c.MinRate > c.MaxRate {
		vb.Fieldf("MinRate", "must not exceed MaxRate (%g)", c.MaxRate)
	}

	return vb.Build()
}

// Playback is a handle on one started timeline
type Playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed once the playback finished or was stopped
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Sequencer runs at most one timeline at a time
type Sequencer struct {
	clock    clock.Clock
	observer Observer
	minRate  float64
	maxRate  float64

	mu      sync.Mutex
	rate    float64
	current *Playback
	label   string

	// emitMu serializes callbacks and observer calls across playbacks so a
	// stopped playback cannot interleave with its replacement
	emitMu sync.Mutex
}

// New creates an idle sequencer
func New(cfg *Config) (*Sequencer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	minRate, maxRate := cfg.MinRate, cfg.MaxRate
	if minRate == 0 {
		minRate = DefaultMinRate
	}
	if maxRate == 0 {
		maxRate = DefaultMaxRate
	}
	if minRate > maxRate {
		return nil, errors.InvalidArgumentf("min rate %g exceeds max rate %g", minRate, maxRate)
	}

	rate := cfg.Rate
	if rate == 0 {
		rate = DefaultRate
	}

	return &Sequencer{
		clock:    cfg.Clock,
		observer: cfg.Observer,
		minRate:  minRate,
		maxRate:  maxRate,
		rate:     min(max(rate, minRate), maxRate),
	}, nil
}

// Play starts the timeline, cancelling any playback in flight. The timeline
// is copied. An empty timeline is a no-op and returns nil.
func (s *Sequencer) Play(ctx context.Context, timeline Timeline) *Playback {
	if len(timeline) == 0 {
		return nil
	}
	steps := make(Timeline, len(timeline))
	copy(steps, timeline)

	playCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.current != nil {
		slog.Debug("Cancelling playback", "label", s.label)
		s.current.cancel()
	}
	p := &Playback{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.current = p
	s.label = ""
	s.mu.Unlock()

	slog.Debug("Playing timeline", "steps", len(steps), "first", steps[0].Label)

	go s.run(playCtx, p, steps)
	return p
}

// StopCurrent cancels the playing timeline without reporting StepEnded for the
// interrupted step
func (s *Sequencer) StopCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	slog.Debug("Stopping playback", "label", s.label)
	s.current.cancel()
	s.current = nil
	s.label = ""
}

// IsPlaying reports whether a timeline is active
func (s *Sequencer) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// CurrentLabel returns the label of the running step, or "" when idle
func (s *Sequencer) CurrentLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// PlaybackRate returns the duration multiplier
func (s *Sequencer) PlaybackRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// SetPlaybackRate clamps r to the configured range and returns the stored
// rate. Holds already in progress keep their length.
func (s *Sequencer) SetPlaybackRate(r float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rate = min(max(r, s.minRate), s.maxRate)
	return s.rate
}

// Wait blocks until no timeline is playing or ctx ends
func (s *Sequencer) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		p := s.current
		s.mu.Unlock()

		if p == nil {
			return nil
		}

		select {
		case <-p.done:
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for playback")
		}
	}
}

func (s *Sequencer) run(ctx context.Context, p *Playback, steps Timeline) {
	defer s.finish(p)

	total := len(steps)
	for i, step := range steps {
		ev := StepEvent{Label: step.Label, Index: i, Total: total}

		if !s.start(ctx, p, step, ev) {
			return
		}

		if d := s.scaled(step.Duration); d > 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(d):
			}
		}

		if !s.end(ctx, p, ev) {
			return
		}
	}
}

func (s *Sequencer) start(ctx context.Context, p *Playback, step Step, ev StepEvent) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.current != p {
		s.mu.Unlock()
		return false
	}
	s.label = step.Label
	s.mu.Unlock()

	if s.observer != nil {
		s.guard("Step started observer", ev, func() { s.observer.StepStarted(ctx, ev) })
	}
	if !s.isCurrent(p) {
		return false
	}
	if step.Callback != nil {
		s.guard("Step callback", ev, step.Callback)
	}
	return true
}

func (s *Sequencer) end(ctx context.Context, p *Playback, ev StepEvent) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	if !s.isCurrent(p) {
		return false
	}
	if s.observer != nil {
		s.guard("Step ended observer", ev, func() { s.observer.StepEnded(ctx, ev) })
	}
	return true
}

// guard runs fn and logs a panic instead of letting it end the playback
func (s *Sequencer) guard(what string, ev StepEvent, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(what+" panicked",
				"label", ev.Label,
				"index", ev.Index,
				"panic", r,
			)
		}
	}()
	fn()
}

func (s *Sequencer) finish(p *Playback) {
	s.mu.Lock()
	if s.current == p {
		s.current = nil
		s.label = ""
	}
	s.mu.Unlock()

	p.cancel()
	close(p.done)
}

func (s *Sequencer) isCurrent(p *Playback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == p
}

func (s *Sequencer) scaled(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(float64(d) * s.PlaybackRate())
}
