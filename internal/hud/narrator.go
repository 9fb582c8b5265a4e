package hud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
)

// NarratorConfig holds the dependencies for a narrator
type NarratorConfig struct {
	Bus *bus.Bus
	Out io.Writer

	// ShowSteps also prints every step with its cues
	ShowSteps bool
}

// Validate ensures all required dependencies are provided
func (c *NarratorConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Bus == nil {
		vb.RequiredField("Bus")
	}
	if c.Out == nil {
		vb.RequiredField("Out")
	}

	return vb.Build()
}

// Narrator writes a play-by-play of combat events
type Narrator struct {
	bus *bus.Bus
	out io.Writer

	mu   sync.Mutex
	subs []string
}

// NewNarrator creates a narrator and subscribes it to the bus
func NewNarrator(cfg *NarratorConfig) (*Narrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	n := &Narrator{bus: cfg.Bus, out: cfg.Out}
	n.subs = []string{
		cfg.Bus.OnTurnStarted(n.turnStarted),
		cfg.Bus.OnDamageApplied(n.damageApplied),
		cfg.Bus.OnParrySuccess(n.parrySuccess),
		cfg.Bus.OnActorDied(n.actorDied),
		cfg.Bus.OnEncounterEnded(n.encounterEnded),
	}
	if cfg.ShowSteps {
		n.subs = append(n.subs, cfg.Bus.OnStepStarted(n.stepStarted))
	}

	return n, nil
}

// Close unsubscribes from the bus
func (n *Narrator) Close() {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	for _, id := range subs {
		if err := n.bus.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe narrator", "subscription", id, "error", err)
		}
	}
}

func (n *Narrator) turnStarted(_ context.Context, ev bus.TurnStarted) {
	n.printf("-- Turn %d: %s (%d/%d) --\n", ev.Turn, ev.Actor.Name(), ev.Actor.HP(), ev.Actor.MaxHP())
}

func (n *Narrator) damageApplied(_ context.Context, ev bus.DamageApplied) {
	if ev.Parried {
		n.printf("%s's blow is turned aside\n", ev.Attacker.Name())
		return
	}
	n.printf("%s hits %s for %d (%d/%d)\n",
		ev.Attacker.Name(), ev.Target.Name(), ev.Amount, ev.Target.HP(), ev.Target.MaxHP())
}

func (n *Narrator) parrySuccess(_ context.Context, ev bus.ParrySuccess) {
	n.printf("%s parries %s!\n", ev.Target.Name(), ev.Attacker.Name())
}

func (n *Narrator) actorDied(_ context.Context, ev bus.ActorDied) {
	if ev.Killer != nil {
		n.printf("%s falls to %s\n", ev.Actor.Name(), ev.Killer.Name())
		return
	}
	n.printf("%s falls\n", ev.Actor.Name())
}

func (n *Narrator) encounterEnded(_ context.Context, ev bus.EncounterEnded) {
	n.printf("Encounter %s over: %s after %d turns\n", ev.EncounterID, ev.Outcome, ev.Turns)
}

func (n *Narrator) stepStarted(_ context.Context, ev sequencer.StepEvent) {
	cues := Cues(ev.Label)
	if len(cues) == 0 {
		n.printf("   . %s\n", ev)
		return
	}
	n.printf("   . %s %v\n", ev, cues)
}

func (n *Narrator) printf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.out, format, args...)
}
