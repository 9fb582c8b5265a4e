package policy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Weights are the relative odds of each action
type Weights struct {
	Attack float64 `yaml:"attack"`
	Defend float64 `yaml:"defend"`
	Wait   float64 `yaml:"wait"`
}

// DefaultWeights favour attacking
func DefaultWeights() Weights {
	return Weights{Attack: 0.70, Defend: 0.20, Wait: 0.10}
}

// Greedy telegraph defaults
const (
	DefaultGreedyTelegraphMin = 200 * time.Millisecond
	DefaultGreedyTelegraphMax = 300 * time.Millisecond
)

// GreedyConfig holds the dependencies for the greedy policy
type GreedyConfig struct {
	Roller dice.Roller
	Stage  Stage

	// Builder defaults to the stock durations
	Builder *timeline.Builder

	// Weights defaults to DefaultWeights when nil
	Weights *Weights

	// TelegraphMin and TelegraphMax default when both are zero
	TelegraphMin time.Duration
	TelegraphMax time.Duration
}

// Validate ensures all required dependencies are provided
func (c *GreedyConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Stage == nil {
		vb.RequiredField("Stage")
	}
	if w := c.Weights; w != nil && (w.Attack < 0 || w.Defend < 0 || w.Wait < 0) {
		vb.Field("Weights", "must not be negative")
	}
	validateTelegraph(vb, c.TelegraphMin, c.TelegraphMax)

	return vb.Build()
}

// Greedy picks among Attack, Defend and Wait by weight. Defend is unavailable
// on the turn right after a committed Defend.
type Greedy struct {
	roller    dice.Roller
	telegraph *telegrapher
	weights   Weights
	minDelay  time.Duration
	maxDelay  time.Duration

	mu               sync.Mutex
	defendedLastTurn bool
}

var _ Policy = (*Greedy)(nil)

// NewGreedy creates a greedy policy. Each actor needs its own instance.
func NewGreedy(cfg *GreedyConfig) (*Greedy, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	weights := DefaultWeights()
	if cfg.Weights != nil {
		weights = *cfg.Weights
	}

	minDelay, maxDelay := cfg.TelegraphMin, cfg.TelegraphMax
	if minDelay == 0 && maxDelay == 0 {
		minDelay, maxDelay = DefaultGreedyTelegraphMin, DefaultGreedyTelegraphMax
	}

	return &Greedy{
		roller:    cfg.Roller,
		telegraph: newTelegrapher(cfg.Stage, cfg.Builder),
		weights:   weights,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
	}, nil
}

// Decide picks, telegraphs and commits one intent
func (g *Greedy) Decide(ctx context.Context, view View, decide DecisionFunc) {
	intent := g.choose(view)

	delay, err := delayBetween(g.roller, g.minDelay, g.maxDelay)
	if err != nil {
		slog.Warn("Telegraph roll failed", "actor", view.Self.Name(), "error", err)
	}

	if err := g.telegraph.show(ctx, view.Self, tellFor(intent.Kind), delay); err != nil {
		slog.Debug("Telegraph interrupted", "actor", view.Self.Name(), "error", err)
		return
	}

	g.mu.Lock()
	g.defendedLastTurn = intent.Kind == combat.ActionDefend
	g.mu.Unlock()

	slog.Info("Enemy intent", "intent", intent.String())
	decide(intent)
}

func (g *Greedy) choose(view View) combat.Intent {
	self := view.Self

	target := FirstAlive(view.Opponents)
	if target == nil {
		return combat.WaitIntent(self)
	}

	g.mu.Lock()
	w := g.weights
	if g.defendedLastTurn {
		w.Defend = 0
	}
	g.mu.Unlock()

	total := w.Attack + w.Defend + w.Wait
	if total <= 0 {
		return combat.WaitIntent(self)
	}

	c, err := chance(g.roller)
	if err != nil {
		slog.Warn("Action roll failed", "actor", self.Name(), "error", err)
		return combat.WaitIntent(self)
	}

	r := c * total
	switch {
	case r < w.Attack:
		return combat.Intent{Kind: combat.ActionAttack, Actor: self, Target: target, Amount: self.Attack()}
	case r < w.Attack+w.Defend:
		return combat.Intent{Kind: combat.ActionDefend, Actor: self}
	default:
		return combat.WaitIntent(self)
	}
}

func tellFor(kind combat.ActionKind) string {
	switch kind {
	case combat.ActionAttack:
		return TellAttack
	case combat.ActionDefend:
		return TellDefend
	default:
		return TellWait
	}
}

func validateTelegraph(vb *errors.ValidationBuilder, lo, hi time.Duration) {
	if lo < 0 || hi < 0 {
		vb.Field("Telegraph", "must not be negative")
	}
	if hi < lo {
		vb.Field("TelegraphMax", "must not be below TelegraphMin")
	}
}
