package testutils

import (
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/testutils/builders"
)

// Fixture roster IDs
const (
	TestHeroID   = "hero"
	TestGoblinID = "goblin"
)

// CreateTestHero creates a 30 HP player with a 10 attack and a three charge shield
func CreateTestHero() *combat.Actor {
	return builders.NewActorBuilder().
		WithID(TestHeroID).
		WithName("Hero").
		WithHP(30).
		WithAttack(10).
		WithShield(3, 2).
		MustBuild()
}

// CreateTestGoblin creates a 12 HP enemy with a 3 attack
func CreateTestGoblin() *combat.Actor {
	return builders.NewActorBuilder().
		WithID(TestGoblinID).
		WithName("Goblin").
		AsEnemy().
		WithHP(12).
		WithAttack(3).
		MustBuild()
}
