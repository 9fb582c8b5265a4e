// Package combat holds the entities of a skirmish: actors, their intents and
// the banked shield charges they spend on skills.
package combat

import "fmt"

// Team is the side an actor fights for
type Team int

// Teams
const (
	TeamPlayer Team = iota
	TeamEnemy
)

// String returns the lowercase team name
func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("team(%d)", int(t))
	}
}

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// ParseTeam maps a config string to a Team
func ParseTeam(s string) (Team, bool) {
	switch s {
	case "player", "players":
		return TeamPlayer, true
	case "enemy", "enemies":
		return TeamEnemy, true
	default:
		return 0, false
	}
}

// ActionKind is what an actor does with its turn
type ActionKind int

// Action kinds
const (
	ActionAttack ActionKind = iota
	ActionDefend
	ActionWait
	ActionShieldSkill
)

// String returns the action name used in logs and step labels
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "Attack"
	case ActionDefend:
		return "Defend"
	case ActionWait:
		return "Wait"
	case ActionShieldSkill:
		return "ShieldSkill"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds
func (k ActionKind) Valid() bool {
	return k >= ActionAttack && k <= ActionShieldSkill
}

// NeedsTarget reports whether the kind acts on another actor
func (k ActionKind) NeedsTarget() bool {
	return k == ActionAttack || k == ActionShieldSkill
}

// Intent is one finalized turn request, built by a policy or input layer and
// consumed once by the resolver. Amount is precomputed damage.
type Intent struct {
	Kind   ActionKind
	Actor  *Actor
	Target *Actor
	Amount int
}

// WaitIntent returns a Wait for the given actor
func WaitIntent(actor *Actor) Intent {
	return Intent{Kind: ActionWait, Actor: actor}
}

// String formats the intent as "[Attack] Hero -> Goblin (5)"
func (i Intent) String() string {
	actor := "-"
	if i.Actor != nil {
		actor = i.Actor.Name()
	}
	target := "-"
	if i.Target != nil {
		target = i.Target.Name()
	}
	return fmt.Sprintf("[%s] %s -> %s (%d)", i.Kind, actor, target, i.Amount)
}

// Outcome is the terminal state of an encounter
type Outcome int

// Outcomes
const (
	OutcomeNone Outcome = iota
	OutcomePlayersWin
	OutcomeEnemiesWin
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomePlayersWin:
		return "PlayersWin"
	case OutcomeEnemiesWin:
		return "EnemiesWin"
	default:
		return "None"
	}
}

// Winner returns the winning team; ok is false while the encounter is undecided
func (o Outcome) Winner() (team Team, ok bool) {
	switch o {
	case OutcomePlayersWin:
		return TeamPlayer, true
	case OutcomeEnemiesWin:
		return TeamEnemy, true
	default:
		return 0, false
	}
}
