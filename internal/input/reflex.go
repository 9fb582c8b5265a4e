package input

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

const reflexSides = 10000

// ReflexConfig holds the dependencies for the reflex tapper
type ReflexConfig struct {
	Tapper Tapper
	Roller dice.Roller

	// Skill is the chance of tapping in time for each telegraphed attack
	Skill float64
}

// Validate ensures all required dependencies are provided
func (c *ReflexConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Tapper == nil {
		vb.RequiredField("Tapper")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	errors.ValidateProbability("Skill", c.Skill, vb)

	return vb.Build()
}

// Reflex taps the parry window when an enemy attack telegraph finishes,
// standing in for a human watching the banner
type Reflex struct {
	tapper Tapper
	roller dice.Roller
	skill  float64

	mu    sync.Mutex
	armed bool
	taps  int
	subs  []string
	bus   *bus.Bus
}

// NewReflex creates a reflex tapper
func NewReflex(cfg *ReflexConfig) (*Reflex, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Reflex{
		tapper: cfg.Tapper,
		roller: cfg.Roller,
		skill:  cfg.Skill,
	}, nil
}

// Attach subscribes to step events on b
func (r *Reflex) Attach(b *bus.Bus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bus = b
	r.subs = append(r.subs,
		b.OnStepStarted(r.StepStarted),
		b.OnStepEnded(r.StepEnded),
	)
}

// Detach drops every subscription made by Attach
func (r *Reflex) Detach() {
	r.mu.Lock()
	subs, b := r.subs, r.bus
	r.subs, r.bus = nil, nil
	r.mu.Unlock()

	for _, id := range subs {
		if err := b.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe reflex tapper", "subscription", id, "error", err)
		}
	}
}

// StepStarted arms on an enemy attack telegraph
func (r *Reflex) StepStarted(_ context.Context, ev sequencer.StepEvent) {
	if ev.Label != timeline.TellPrefix+policy.TellAttack {
		return
	}
	r.mu.Lock()
	r.armed = true
	r.mu.Unlock()
}

// StepEnded taps, skill permitting, as the intent banner closes
func (r *Reflex) StepEnded(_ context.Context, ev sequencer.StepEvent) {
	if ev.Label != timeline.LabelBannerIntent {
		return
	}

	r.mu.Lock()
	armed := r.armed
	r.armed = false
	r.mu.Unlock()
	if !armed {
		return
	}

	roll, err := r.roller.Roll(reflexSides)
	if err != nil {
		slog.Warn("Reflex roll failed", "error", err)
		return
	}
	if float64(roll-1)/reflexSides >= r.skill {
		slog.Debug("Reflex missed the parry")
		return
	}

	r.mu.Lock()
	r.taps++
	r.mu.Unlock()
	r.tapper.RegisterTap()
}

// Taps reports how many taps were made
func (r *Reflex) Taps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taps
}
