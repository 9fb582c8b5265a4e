// Package policy holds the per-actor strategies that pick a turn's action.
//
// Player defers to an external decision source. Greedy and Reactive are AI
// strategies that pick an intent, telegraph it through the stage, and then
// commit. All randomness comes from an injected dice.Roller.
package policy

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

// DecisionFunc receives the finalized intent
type DecisionFunc func(combat.Intent)

// Policy chooses an action for one actor. Decide must call decide exactly
// once unless ctx ends first, and must return once ctx ends. It may call
// decide before or after returning.
type Policy interface {
	Decide(ctx context.Context, view View, decide DecisionFunc)
}

// View is what an actor sees when deciding. Opponents and Allies only hold
// living actors; Allies excludes Self.
type View struct {
	Self      *combat.Actor
	Opponents []*combat.Actor
	Allies    []*combat.Actor
}

// FirstAlive returns the first living actor, or nil
func FirstAlive(actors []*combat.Actor) *combat.Actor {
	for _, a := range actors {
		if a != nil && a.IsAlive() {
			return a
		}
	}
	return nil
}

// chanceSides is the die size used to draw a probability
const chanceSides = 10000

// chance draws a value in [0, 1)
func chance(roller dice.Roller) (float64, error) {
	roll, err := roller.Roll(chanceSides)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll chance")
	}
	return float64(roll-1) / chanceSides, nil
}

// delayBetween draws a duration uniformly in [lo, hi)
func delayBetween(roller dice.Roller, lo, hi time.Duration) (time.Duration, error) {
	if hi <= lo {
		return lo, nil
	}
	c, err := chance(roller)
	if err != nil {
		return lo, err
	}
	return lo + time.Duration(float64(hi-lo)*c), nil
}
