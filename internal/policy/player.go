package policy

//go:generate mockgen -destination=mock/mock_decision_source.go -package=policymock github.com/KirkDiggler/rpg-skirmish/internal/policy DecisionSource

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

// ActionRequest asks an input collaborator for one decision
type ActionRequest struct {
	Actor *combat.Actor
	// Candidates are the living targets, first one is the default
	Candidates []*combat.Actor
}

// DecisionSource is the input side of a player-controlled actor. It calls
// onDecision exactly once per request unless CancelRequest is called. The
// intent may leave Target and Amount empty; the player policy completes it.
type DecisionSource interface {
	RequestAction(ctx context.Context, req *ActionRequest, onDecision func(combat.Intent))
	CancelRequest()
}

// PlayerConfig holds the dependencies for the player policy
type PlayerConfig struct {
	Source DecisionSource

	// ChargedAttacks drains banked charges into basic attacks
	ChargedAttacks bool
}

// Validate ensures all required dependencies are provided
func (c *PlayerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Source == nil {
		vb.RequiredField("Source")
	}

	return vb.Build()
}

// Player waits on a decision source and finalizes its choice, computing the
// damage at decision time
type Player struct {
	source         DecisionSource
	chargedAttacks bool
}

var _ Policy = (*Player)(nil)

// NewPlayer creates a player policy
func NewPlayer(cfg *PlayerConfig) (*Player, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Player{
		source:         cfg.Source,
		chargedAttacks: cfg.ChargedAttacks,
	}, nil
}

// Decide requests an action and returns without waiting for it. The pending
// request is cancelled when ctx ends.
func (p *Player) Decide(ctx context.Context, view View, decide DecisionFunc) {
	stop := context.AfterFunc(ctx, func() {
		slog.Debug("Cancelling action request", "actor", view.Self.Name())
		p.source.CancelRequest()
	})

	var once sync.Once
	req := &ActionRequest{
		Actor:      view.Self,
		Candidates: livingOnly(view.Opponents),
	}

	p.source.RequestAction(ctx, req, func(in combat.Intent) {
		once.Do(func() {
			stop()
			if ctx.Err() != nil {
				return
			}
			intent := p.complete(view, in)
			slog.Info("Player intent", "intent", intent.String())
			decide(intent)
		})
	})
}

func (p *Player) complete(view View, in combat.Intent) combat.Intent {
	self := view.Self

	switch in.Kind {
	case combat.ActionAttack:
		target := pickTarget(in.Target, view.Opponents)
		if target == nil {
			slog.Info("No target available, waiting", "actor", self.Name())
			return combat.WaitIntent(self)
		}
		amount := self.Attack()
		if p.chargedAttacks && self.Charges() != nil {
			amount += self.Charges().ConsumeForBonus()
		}
		return combat.Intent{Kind: combat.ActionAttack, Actor: self, Target: target, Amount: amount}

	case combat.ActionShieldSkill:
		target := pickTarget(in.Target, view.Opponents)
		if target == nil {
			slog.Info("No target available, waiting", "actor", self.Name())
			return combat.WaitIntent(self)
		}
		if self.Charges() == nil || self.Charges().Count() == 0 {
			slog.Info("No shield charges, waiting", "actor", self.Name())
			return combat.WaitIntent(self)
		}
		bonus := self.Charges().ConsumeForBonus()
		return combat.Intent{Kind: combat.ActionShieldSkill, Actor: self, Target: target, Amount: max(1, bonus)}

	case combat.ActionDefend:
		return combat.Intent{Kind: combat.ActionDefend, Actor: self}

	default:
		return combat.WaitIntent(self)
	}
}

// pickTarget keeps a living chosen target, otherwise falls back to the first
// living opponent
func pickTarget(chosen *combat.Actor, opponents []*combat.Actor) *combat.Actor {
	if chosen != nil && chosen.IsAlive() {
		return chosen
	}
	return FirstAlive(opponents)
}

func livingOnly(actors []*combat.Actor) []*combat.Actor {
	alive := make([]*combat.Actor, 0, len(actors))
	for _, a := range actors {
		if a != nil && a.IsAlive() {
			alive = append(alive, a)
		}
	}
	return alive
}
