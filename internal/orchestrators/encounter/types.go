package encounter

import (
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
)

// Combatant pairs an actor with the policy that decides its turns
type Combatant struct {
	Actor  *combat.Actor
	Policy policy.Policy
}

// RunInput defines the request for running an encounter
type RunInput struct {
	// MaxTurns aborts the run after this many turns; zero means unbounded
	MaxTurns int
}

// RunOutput defines the response for a finished encounter
type RunOutput struct {
	EncounterID string
	Outcome     combat.Outcome
	Turns       int
}
