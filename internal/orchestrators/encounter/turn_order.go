package encounter

import (
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
)

// TurnOrder is a fixed roster with a rotating cursor. Only liveness changes
// during an encounter.
type TurnOrder struct {
	mu     sync.Mutex
	actors []*combat.Actor
	cursor int
}

// NewTurnOrder creates an order whose first Next returns the first living actor
func NewTurnOrder(actors []*combat.Actor) *TurnOrder {
	return &TurnOrder{
		actors: append([]*combat.Actor(nil), actors...),
		cursor: len(actors) - 1,
	}
}

// Next advances past dead actors, wrapping around, and returns the next
// living actor. It returns nil after a full pass finds nobody alive.
func (o *TurnOrder) Next() *combat.Actor {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := len(o.actors)
	for range n {
		o.cursor = (o.cursor + 1) % n
		if a := o.actors[o.cursor]; a.IsAlive() {
			return a
		}
	}
	return nil
}

// Reset moves the cursor, so the following Next starts after index
func (o *TurnOrder) Reset(index int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if n := len(o.actors); n > 0 {
		o.cursor = ((index % n) + n) % n
	}
}

// Actors returns the full roster in order
func (o *TurnOrder) Actors() []*combat.Actor {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*combat.Actor(nil), o.actors...)
}

// Alive returns the living actors in order
func (o *TurnOrder) Alive() []*combat.Actor {
	o.mu.Lock()
	defer o.mu.Unlock()

	alive := make([]*combat.Actor, 0, len(o.actors))
	for _, a := range o.actors {
		if a.IsAlive() {
			alive = append(alive, a)
		}
	}
	return alive
}

// CheckVictory reports the winner once a side has nobody standing. A wiped
// player side loses even if the enemies are gone too.
func CheckVictory(actors []*combat.Actor) combat.Outcome {
	playersAlive, enemiesAlive := false, false
	for _, a := range actors {
		if !a.IsAlive() {
			continue
		}
		switch a.Team() {
		case combat.TeamPlayer:
			playersAlive = true
		case combat.TeamEnemy:
			enemiesAlive = true
		}
	}

	switch {
	case !playersAlive:
		return combat.OutcomeEnemiesWin
	case !enemiesAlive:
		return combat.OutcomePlayersWin
	default:
		return combat.OutcomeNone
	}
}
