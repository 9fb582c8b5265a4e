// Package arena assembles one encounter from its definition: event bus,
// parry window, sequencer, resolver, policies and scheduler.
package arena

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/config"
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-skirmish/internal/parry"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-skirmish/internal/resolver"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Config holds everything needed to build an encounter
type Config struct {
	Encounter *config.Encounter

	// Clock drives playback and the parry window; defaults to the real clock
	Clock clock.Clock

	// Source answers for the actor using the player policy
	Source policy.DecisionSource

	// Parry lets input built before the arena share its window; defaults to a
	// window sized by the encounter
	Parry *parry.Window

	// Rollers returns the roller for the i-th AI actor; defaults to seeded
	// rollers derived from the encounter seed
	Rollers func(i int) dice.Roller

	// Repository is optional
	Repository encounters.Repository

	// Bus defaults to a fresh bus
	Bus *bus.Bus

	// IDGenerator defaults to UUID based encounter IDs
	IDGenerator idgen.Generator

	StrictContracts bool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Encounter == nil {
		vb.RequiredField("Encounter")
		return vb.Build()
	}
	if err := c.Encounter.Validate(); err != nil {
		vb.Fieldf("Encounter", "%s", errors.GetMessage(err))
	}
	for _, a := range c.Encounter.Actors {
		if a.Policy.Kind == config.PolicyPlayer && c.Source == nil {
			vb.Fieldf("Source", "required by player actor %s", a.ID)
		}
	}

	return vb.Build()
}

// Arena is one assembled encounter
type Arena struct {
	Bus       *bus.Bus
	Parry     *parry.Window
	Sequencer *sequencer.Sequencer
	Resolver  resolver.Service
	Scheduler encounter.Service

	actors    []*combat.Actor
	reactives []*policy.Reactive
	maxTurns  int
	subs      []string
}

// New builds the encounter described by cfg
func New(cfg *Config) (*Arena, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	enc := cfg.Encounter
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	rollers := cfg.Rollers
	if rollers == nil {
		rollers = func(i int) dice.Roller {
			return policy.NewSeededRoller(enc.Seed + uint64(i))
		}
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = idgen.NewUUID("encounter")
	}

	a := &Arena{Bus: cfg.Bus, maxTurns: enc.MaxTurns}
	if a.Bus == nil {
		b, err := bus.New(&bus.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create bus")
		}
		a.Bus = b
	}

	var err error
	a.Parry = cfg.Parry
	if a.Parry == nil {
		a.Parry, err = parry.NewWindow(&parry.Config{Clock: clk, Window: enc.ParryWindow})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create parry window")
		}
	}

	a.Sequencer, err = sequencer.New(&sequencer.Config{
		Clock:    clk,
		Observer: a.Bus,
		Rate:     enc.PlaybackRate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sequencer")
	}

	defendable, _ := combat.ParseTeam(enc.DefendableTeam)
	builder := timeline.NewBuilder(enc.Durations)

	a.Resolver, err = resolver.New(&resolver.Config{
		Parry:          a.Parry,
		Stage:          a.Sequencer,
		Publisher:      a.Bus,
		Builder:        builder,
		DefendableTeam: defendable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resolver")
	}

	combatants := make([]encounter.Combatant, 0, len(enc.Actors))
	for i, def := range enc.Actors {
		actor, err := newActor(def)
		if err != nil {
			return nil, err
		}

		p, err := a.newPolicy(cfg, def, builder, rollers(i))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create policy for %s", def.ID)
		}

		a.actors = append(a.actors, actor)
		combatants = append(combatants, encounter.Combatant{Actor: actor, Policy: p})
	}

	a.Scheduler, err = encounter.NewScheduler(&encounter.Config{
		Combatants:      combatants,
		Resolver:        a.Resolver,
		Stage:           a.Sequencer,
		Publisher:       a.Bus,
		Repository:      cfg.Repository,
		IDGenerator:     idGen,
		Clock:           clk,
		StrictContracts: cfg.StrictContracts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}

	if len(a.reactives) > 0 {
		a.subs = append(a.subs, a.Bus.OnParrySuccess(a.notifyParry))
	}

	slog.Info("Encounter assembled",
		"name", enc.Name,
		"actor_count", len(a.actors),
		"seed", enc.Seed,
		"playback_rate", a.Sequencer.PlaybackRate(),
	)

	return a, nil
}

func newActor(def config.Actor) (*combat.Actor, error) {
	team, _ := combat.ParseTeam(def.Team)
	actorCfg := &combat.ActorConfig{
		ID:     def.ID,
		Name:   def.Name,
		Team:   team,
		MaxHP:  def.HP,
		Attack: def.Attack,
	}
	if def.Shield != nil {
		actorCfg.Shield = &combat.ShieldConfig{
			MaxCharges:      def.Shield.MaxCharges,
			DamagePerCharge: def.Shield.DamagePerCharge,
		}
	}

	actor, err := combat.NewActor(actorCfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create actor %s", def.ID)
	}
	return actor, nil
}

func (a *Arena) newPolicy(cfg *Config, def config.Actor, builder *timeline.Builder, roller dice.Roller) (policy.Policy, error) {
	switch def.Policy.Kind {
	case config.PolicyPlayer:
		return policy.NewPlayer(&policy.PlayerConfig{
			Source:         cfg.Source,
			ChargedAttacks: cfg.Encounter.ChargedAttacks,
		})

	case config.PolicyGreedy:
		return policy.NewGreedy(&policy.GreedyConfig{
			Roller:       roller,
			Stage:        a.Sequencer,
			Builder:      builder,
			Weights:      def.Policy.Weights,
			TelegraphMin: def.Policy.TelegraphMin,
			TelegraphMax: def.Policy.TelegraphMax,
		})

	case config.PolicyReactive:
		r, err := policy.NewReactive(&policy.ReactiveConfig{
			Roller:       roller,
			Stage:        a.Sequencer,
			Builder:      builder,
			Tuning:       def.Policy.Tuning,
			TelegraphMin: def.Policy.TelegraphMin,
			TelegraphMax: def.Policy.TelegraphMax,
		})
		if err != nil {
			return nil, err
		}
		a.reactives = append(a.reactives, r)
		return r, nil

	default:
		return nil, errors.InvalidArgumentf("unknown policy %q", def.Policy.Kind)
	}
}

func (a *Arena) notifyParry(_ context.Context, ev bus.ParrySuccess) {
	for _, r := range a.reactives {
		r.NotifyParry(ev.Target)
	}
}

// Actors returns the roster in turn order
func (a *Arena) Actors() []*combat.Actor {
	return append([]*combat.Actor(nil), a.actors...)
}

// Run plays the encounter to its end
func (a *Arena) Run(ctx context.Context) (*encounter.RunOutput, error) {
	return a.Scheduler.Run(ctx, &encounter.RunInput{MaxTurns: a.maxTurns})
}

// Close stops playback and drops the arena's subscriptions
func (a *Arena) Close() {
	a.Sequencer.StopCurrent()
	for _, id := range a.subs {
		if err := a.Bus.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe", "subscription", id, "error", err)
		}
	}
	a.subs = nil
}
