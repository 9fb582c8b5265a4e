// Package resolver turns finalized intents into timelines. It decides the
// numbers (parry, planned damage) up front; the state changes happen later
// inside the timeline's callbacks.
package resolver

//go:generate mockgen -destination=mock/mock_service.go -package=resolvermock github.com/KirkDiggler/rpg-skirmish/internal/resolver Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Service resolves one intent per call
type Service interface {
	Resolve(ctx context.Context, intent combat.Intent) (*Outcome, error)
}

// ParryChecker reports whether the reflex window is open right now
type ParryChecker interface {
	IsActiveNow() bool
}

// Stage plays timelines
type Stage interface {
	Play(ctx context.Context, t sequencer.Timeline) *sequencer.Playback
}

// Publisher receives the combat events raised by timeline callbacks
type Publisher interface {
	PublishDamageApplied(ctx context.Context, ev bus.DamageApplied) error
	PublishParrySuccess(ctx context.Context, ev bus.ParrySuccess) error
	PublishActorDied(ctx context.Context, ev bus.ActorDied) error
}

// Config holds the dependencies for the resolver
type Config struct {
	Parry     ParryChecker
	Stage     Stage
	Publisher Publisher

	// Builder defaults to the stock durations
	Builder *timeline.Builder

	// DefendableTeam is the side the parry window protects
	DefendableTeam combat.Team
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Parry == nil {
		vb.RequiredField("Parry")
	}
	if c.Stage == nil {
		vb.RequiredField("Stage")
	}
	if c.Publisher == nil {
		vb.RequiredField("Publisher")
	}
	if c.DefendableTeam != combat.TeamPlayer && c.DefendableTeam != combat.TeamEnemy {
		vb.InvalidField("DefendableTeam", c.DefendableTeam.String())
	}

	return vb.Build()
}

// Outcome describes what Resolve planned and started
type Outcome struct {
	Intent combat.Intent

	// Parried is decided at resolution time
	Parried bool
	// PlannedDamage is what the Damage step will hand to the target,
	// before the target's own defend halving
	PlannedDamage int
	// Skipped is set when the intent had nothing valid to act on
	Skipped bool

	Timeline sequencer.Timeline
	Playback *sequencer.Playback
}

type resolver struct {
	parry          ParryChecker
	stage          Stage
	publisher      Publisher
	builder        *timeline.Builder
	defendableTeam combat.Team
}

// New creates a resolver with the provided dependencies
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	builder := cfg.Builder
	if builder == nil {
		builder = timeline.NewBuilder(timeline.DefaultDurations())
	}

	return &resolver{
		parry:          cfg.Parry,
		stage:          cfg.Stage,
		publisher:      cfg.Publisher,
		builder:        builder,
		defendableTeam: cfg.DefendableTeam,
	}, nil
}

// Resolve plans the intent and hands its timeline to the stage. Damage and
// defend are applied later by the timeline, not here.
func (r *resolver) Resolve(ctx context.Context, intent combat.Intent) (*Outcome, error) {
	if intent.Actor == nil {
		return nil, errors.InvalidArgument("intent actor is required")
	}
	if !intent.Kind.Valid() {
		return nil, errors.InvalidArgumentf("unknown action kind %d", int(intent.Kind))
	}

	out := &Outcome{Intent: intent}

	switch intent.Kind {
	case combat.ActionAttack:
		if !livingTarget(intent) {
			return skipped(out), nil
		}

		out.Parried = intent.Target.Team() == r.defendableTeam && r.parry.IsActiveNow()
		out.PlannedDamage = max(intent.Amount, 0)
		if out.Parried {
			out.PlannedDamage = 0
		}

		fx := &effects{ctx: ctx, publisher: r.publisher, parried: out.Parried}
		out.Timeline = r.builder.Attack(&timeline.AttackInput{
			Attacker: intent.Actor,
			Target:   intent.Target,
			Amount:   out.PlannedDamage,
			Parried:  out.Parried,
		}, fx)

		slog.Info("Attack resolved",
			"attacker", intent.Actor.Name(),
			"target", intent.Target.Name(),
			"amount", out.PlannedDamage,
			"parried", out.Parried,
		)

	case combat.ActionDefend:
		fx := &effects{ctx: ctx, publisher: r.publisher}
		out.Timeline = r.builder.Defend(intent.Actor, fx)

		slog.Info("Defend resolved", "actor", intent.Actor.Name())

	case combat.ActionWait:
		slog.Info("Actor waits", "actor", intent.Actor.Name())
		return out, nil

	case combat.ActionShieldSkill:
		if !livingTarget(intent) {
			return skipped(out), nil
		}

		out.PlannedDamage = max(intent.Amount, 0)
		fx := &effects{ctx: ctx, publisher: r.publisher}
		out.Timeline = r.builder.ShieldSkill(&timeline.SkillInput{
			Actor:  intent.Actor,
			Target: intent.Target,
			Amount: out.PlannedDamage,
		}, fx)

		slog.Info("Shield skill resolved",
			"actor", intent.Actor.Name(),
			"target", intent.Target.Name(),
			"amount", out.PlannedDamage,
		)
	}

	out.Playback = r.stage.Play(ctx, out.Timeline)
	return out, nil
}

func livingTarget(intent combat.Intent) bool {
	return intent.Target != nil && intent.Target.IsAlive()
}

func skipped(out *Outcome) *Outcome {
	slog.Info("Intent skipped, no living target", "intent", out.Intent.String())
	out.Skipped = true
	return out
}
