package input

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

// Command is one parsed input line
type Command struct {
	// Parry is a reflex tap rather than an action choice
	Parry bool
	Kind  combat.ActionKind
	// Target is a 1-based index into the request candidates; zero means default
	Target int
}

// ParseCommand maps the legacy keys onto commands:
// a [n] attack, d defend, w wait, s [n] shield skill, p parry tap
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, errors.InvalidArgument("empty command")
	}

	var cmd Command
	switch fields[0] {
	case "a", "attack":
		cmd.Kind = combat.ActionAttack
	case "d", "defend":
		cmd.Kind = combat.ActionDefend
	case "w", "wait":
		cmd.Kind = combat.ActionWait
	case "s", "shield", "skill":
		cmd.Kind = combat.ActionShieldSkill
	case "p", "parry":
		return Command{Parry: true}, nil
	default:
		return Command{}, errors.InvalidArgumentf("unknown command %q", fields[0])
	}

	if len(fields) > 1 {
		if !cmd.Kind.NeedsTarget() {
			return Command{}, errors.InvalidArgumentf("%s takes no target", cmd.Kind)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return Command{}, errors.InvalidArgumentf("invalid target %q", fields[1])
		}
		cmd.Target = n
	}

	return cmd, nil
}

// Intent turns the command into an intent for actor. An out of range target
// index leaves the target empty so the player policy falls back.
func (c Command) Intent(actor *combat.Actor, candidates []*combat.Actor) combat.Intent {
	intent := combat.Intent{Kind: c.Kind, Actor: actor}
	if c.Kind.NeedsTarget() && c.Target > 0 && c.Target <= len(candidates) {
		intent.Target = candidates[c.Target-1]
	}
	return intent
}
