package resolver

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// effects applies one resolution's state changes from timeline callbacks
type effects struct {
	ctx       context.Context
	publisher Publisher
	parried   bool
}

var _ timeline.Effects = (*effects)(nil)

func (e *effects) ParrySucceeded(attacker, target *combat.Actor) {
	slog.Info("Parry!", "attacker", attacker.Name(), "target", target.Name())

	if err := e.publisher.PublishParrySuccess(e.ctx, bus.ParrySuccess{
		Attacker: attacker,
		Target:   target,
	}); err != nil {
		slog.Warn("Failed to publish parry success", "error", err)
	}
}

func (e *effects) GrantCharge(target *combat.Actor) {
	charges := target.Charges()
	if charges == nil {
		return
	}
	before, after := charges.Add(1)
	slog.Info("Shield charge gained", "actor", target.Name(), "before", before, "after", after)
}

func (e *effects) ApplyDamage(attacker, target *combat.Actor, amount int) {
	if !target.IsAlive() {
		slog.Debug("Damage skipped, target already down", "target", target.Name())
		return
	}

	applied := target.TakeDamage(amount)

	if err := e.publisher.PublishDamageApplied(e.ctx, bus.DamageApplied{
		Attacker: attacker,
		Target:   target,
		Amount:   applied,
		Parried:  e.parried,
	}); err != nil {
		slog.Warn("Failed to publish damage applied", "error", err)
	}

	if target.IsAlive() {
		return
	}
	if err := e.publisher.PublishActorDied(e.ctx, bus.ActorDied{
		Actor:  target,
		Killer: attacker,
	}); err != nil {
		slog.Warn("Failed to publish actor died", "error", err)
	}
}

func (e *effects) ApplyDefend(actor *combat.Actor) {
	actor.Defend()
}
