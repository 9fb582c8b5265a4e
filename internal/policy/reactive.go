package policy

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Tuning configures the reactive policy's odds
type Tuning struct {
	// LowHPThreshold is the HP fraction below which the actor turtles
	LowHPThreshold float64 `yaml:"low_hp_threshold"`
	// LowHPDefend is the defend chance while below the threshold
	LowHPDefend float64 `yaml:"low_hp_defend"`
	// AttackBias is the attack chance while healthy
	AttackBias float64 `yaml:"attack_bias"`
	// AfterParryBias replaces AttackBias for one turn after an ally parried
	AfterParryBias float64 `yaml:"after_parry_bias"`
}

// DefaultTuning returns the stock companion odds
func DefaultTuning() Tuning {
	return Tuning{
		LowHPThreshold: 0.30,
		LowHPDefend:    0.60,
		AttackBias:     0.60,
		AfterParryBias: 0.80,
	}
}

// Reactive telegraph defaults
const (
	DefaultReactiveTelegraphMin = 300 * time.Millisecond
	DefaultReactiveTelegraphMax = 500 * time.Millisecond
)

// ReactiveConfig holds the dependencies for the reactive policy
type ReactiveConfig struct {
	Roller dice.Roller
	Stage  Stage

	// Builder defaults to the stock durations
	Builder *timeline.Builder

	// Tuning defaults to DefaultTuning when nil
	Tuning *Tuning

	// TelegraphMin and TelegraphMax default when both are zero
	TelegraphMin time.Duration
	TelegraphMax time.Duration
}

// Validate ensures all required dependencies are provided
func (c *ReactiveConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Stage == nil {
		vb.RequiredField("Stage")
	}
	if t := c.Tuning; t != nil {
		errors.ValidateProbability("LowHPThreshold", t.LowHPThreshold, vb)
		errors.ValidateProbability("LowHPDefend", t.LowHPDefend, vb)
		errors.ValidateProbability("AttackBias", t.AttackBias, vb)
		errors.ValidateProbability("AfterParryBias", t.AfterParryBias, vb)
	}
	validateTelegraph(vb, c.TelegraphMin, c.TelegraphMax)

	return vb.Build()
}

// Reactive guards itself when hurt and presses harder right after the player
// side lands a parry
type Reactive struct {
	roller    dice.Roller
	telegraph *telegrapher
	tuning    Tuning
	minDelay  time.Duration
	maxDelay  time.Duration

	sawParry atomic.Bool
}

var _ Policy = (*Reactive)(nil)

// NewReactive creates a reactive policy. Each actor needs its own instance.
func NewReactive(cfg *ReactiveConfig) (*Reactive, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	tuning := DefaultTuning()
	if cfg.Tuning != nil {
		tuning = *cfg.Tuning
	}

	minDelay, maxDelay := cfg.TelegraphMin, cfg.TelegraphMax
	if minDelay == 0 && maxDelay == 0 {
		minDelay, maxDelay = DefaultReactiveTelegraphMin, DefaultReactiveTelegraphMax
	}

	return &Reactive{
		roller:    cfg.Roller,
		telegraph: newTelegrapher(cfg.Stage, cfg.Builder),
		tuning:    tuning,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
	}, nil
}

// NotifyParry arms the after-parry bias when the parrying target is on the
// player side
func (r *Reactive) NotifyParry(target *combat.Actor) {
	if target == nil || target.Team() != combat.TeamPlayer {
		return
	}
	r.sawParry.Store(true)
}

// Decide picks, telegraphs and commits one intent. The after-parry flag is
// consumed on commit whether or not it swayed the choice.
func (r *Reactive) Decide(ctx context.Context, view View, decide DecisionFunc) {
	intent := r.choose(view)

	delay, err := delayBetween(r.roller, r.minDelay, r.maxDelay)
	if err != nil {
		slog.Warn("Telegraph roll failed", "actor", view.Self.Name(), "error", err)
	}

	if err := r.telegraph.show(ctx, view.Self, allyTellFor(intent.Kind), delay); err != nil {
		slog.Debug("Telegraph interrupted", "actor", view.Self.Name(), "error", err)
		return
	}

	r.sawParry.Store(false)

	slog.Info("Ally intent", "intent", intent.String())
	decide(intent)
}

func (r *Reactive) choose(view View) combat.Intent {
	self := view.Self

	target := FirstAlive(view.Opponents)
	if target == nil {
		return combat.WaitIntent(self)
	}

	c, err := chance(r.roller)
	if err != nil {
		slog.Warn("Action roll failed", "actor", self.Name(), "error", err)
		return combat.WaitIntent(self)
	}

	attack := combat.Intent{Kind: combat.ActionAttack, Actor: self, Target: target, Amount: self.Attack()}
	defend := combat.Intent{Kind: combat.ActionDefend, Actor: self}

	if self.HPFraction() < r.tuning.LowHPThreshold {
		if c < r.tuning.LowHPDefend {
			return defend
		}
		return attack
	}

	bias := r.tuning.AttackBias
	if r.sawParry.Load() {
		bias = max(bias, r.tuning.AfterParryBias)
	}
	if c < bias {
		return attack
	}
	return defend
}

func allyTellFor(kind combat.ActionKind) string {
	switch kind {
	case combat.ActionAttack:
		return TellAllyAttack
	case combat.ActionWait:
		return TellWait
	default:
		return TellAllyDefend
	}
}
