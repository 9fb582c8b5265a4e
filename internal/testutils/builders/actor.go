// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
)

// ActorBuilder provides a fluent interface for building test actors
type ActorBuilder struct {
	cfg       combat.ActorConfig
	damage    int
	charges   int
	defending bool
}

// NewActorBuilder creates a new builder with minimal defaults
func NewActorBuilder() *ActorBuilder {
	return &ActorBuilder{
		cfg: combat.ActorConfig{
			ID:     "actor-test-1",
			Name:   "Tester",
			Team:   combat.TeamPlayer,
			MaxHP:  20,
			Attack: 5,
		},
	}
}

// WithID sets the actor ID, and the name when none was set
func (b *ActorBuilder) WithID(id string) *ActorBuilder {
	if b.cfg.Name == "Tester" {
		b.cfg.Name = id
	}
	b.cfg.ID = id
	return b
}

// WithName sets the display name
func (b *ActorBuilder) WithName(name string) *ActorBuilder {
	b.cfg.Name = name
	return b
}

// AsEnemy puts the actor on the enemy team
func (b *ActorBuilder) AsEnemy() *ActorBuilder {
	b.cfg.Team = combat.TeamEnemy
	return b
}

// WithHP sets the maximum HP
func (b *ActorBuilder) WithHP(maxHP int) *ActorBuilder {
	b.cfg.MaxHP = maxHP
	return b
}

// WithAttack sets the attack stat
func (b *ActorBuilder) WithAttack(attack int) *ActorBuilder {
	b.cfg.Attack = attack
	return b
}

// WithShield gives the actor a charge accumulator
func (b *ActorBuilder) WithShield(maxCharges, damagePerCharge int) *ActorBuilder {
	b.cfg.Shield = &combat.ShieldConfig{MaxCharges: maxCharges, DamagePerCharge: damagePerCharge}
	return b
}

// WithDamage applies damage after construction
func (b *ActorBuilder) WithDamage(amount int) *ActorBuilder {
	b.damage = amount
	return b
}

// WithCharges banks charges after construction; requires WithShield
func (b *ActorBuilder) WithCharges(n int) *ActorBuilder {
	b.charges = n
	return b
}

// Defending raises the defend flag after any damage
func (b *ActorBuilder) Defending() *ActorBuilder {
	b.defending = true
	return b
}

// Build creates the actor
func (b *ActorBuilder) Build() (*combat.Actor, error) {
	cfg := b.cfg
	actor, err := combat.NewActor(&cfg)
	if err != nil {
		return nil, err
	}

	if b.damage > 0 {
		actor.TakeDamage(b.damage)
	}
	if b.charges > 0 && actor.Charges() != nil {
		actor.Charges().Add(b.charges)
	}
	if b.defending {
		actor.Defend()
	}
	return actor, nil
}

// MustBuild creates the actor and panics on an invalid configuration
func (b *ActorBuilder) MustBuild() *combat.Actor {
	actor, err := b.Build()
	if err != nil {
		panic(err)
	}
	return actor
}
