package encounter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/orchestrators/encounter"
)

func newActor(t *testing.T, id string, team combat.Team, hp, attack int) *combat.Actor {
	t.Helper()
	a, err := combat.NewActor(&combat.ActorConfig{
		ID:     id,
		Name:   id,
		Team:   team,
		MaxHP:  hp,
		Attack: attack,
	})
	require.NoError(t, err)
	return a
}

func TestTurnOrderSkipsDead(t *testing.T) {
	a := newActor(t, "A", combat.TeamPlayer, 10, 1)
	b := newActor(t, "B", combat.TeamPlayer, 10, 1)
	c := newActor(t, "C", combat.TeamEnemy, 10, 1)
	a.TakeDamage(10)

	order := encounter.NewTurnOrder([]*combat.Actor{a, b, c})

	assert.Equal(t, b, order.Next())
	assert.Equal(t, c, order.Next())
	assert.Equal(t, b, order.Next())
	assert.Equal(t, []*combat.Actor{b, c}, order.Alive())
	assert.Len(t, order.Actors(), 3)
}

func TestTurnOrderAllDead(t *testing.T) {
	a := newActor(t, "A", combat.TeamPlayer, 1, 1)
	a.TakeDamage(1)

	order := encounter.NewTurnOrder([]*combat.Actor{a})
	assert.Nil(t, order.Next())
	assert.Nil(t, encounter.NewTurnOrder(nil).Next())
}

func TestTurnOrderReset(t *testing.T) {
	a := newActor(t, "A", combat.TeamPlayer, 10, 1)
	b := newActor(t, "B", combat.TeamEnemy, 10, 1)
	order := encounter.NewTurnOrder([]*combat.Actor{a, b})

	order.Reset(0)
	assert.Equal(t, b, order.Next())
	order.Reset(-1)
	assert.Equal(t, a, order.Next())
}

func TestCheckVictory(t *testing.T) {
	testCases := []struct {
		name      string
		heroDead  bool
		enemyDead bool
		expected  combat.Outcome
	}{
		{name: "both standing", expected: combat.OutcomeNone},
		{name: "enemies down", enemyDead: true, expected: combat.OutcomePlayersWin},
		{name: "players down", heroDead: true, expected: combat.OutcomeEnemiesWin},
		{name: "everyone down", heroDead: true, enemyDead: true, expected: combat.OutcomeEnemiesWin},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hero := newActor(t, "hero", combat.TeamPlayer, 5, 1)
			goblin := newActor(t, "goblin", combat.TeamEnemy, 5, 1)
			if tc.heroDead {
				hero.TakeDamage(5)
			}
			if tc.enemyDead {
				goblin.TakeDamage(5)
			}

			assert.Equal(t, tc.expected, encounter.CheckVictory([]*combat.Actor{hero, goblin}))
		})
	}
}
