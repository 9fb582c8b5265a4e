package input

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
)

// Scripted answers every request immediately from a fixed list of commands.
// Once the script runs out it keeps answering Wait.
type Scripted struct {
	mu       sync.Mutex
	commands []Command
	next     int
}

var _ policy.DecisionSource = (*Scripted)(nil)

// NewScripted creates a scripted source
func NewScripted(commands ...Command) *Scripted {
	return &Scripted{commands: append([]Command(nil), commands...)}
}

// RequestAction answers with the next scripted command
func (s *Scripted) RequestAction(_ context.Context, req *policy.ActionRequest, onDecision func(combat.Intent)) {
	s.mu.Lock()
	cmd := Command{Kind: combat.ActionWait}
	if s.next < len(s.commands) {
		cmd = s.commands[s.next]
		s.next++
	}
	s.mu.Unlock()

	onDecision(cmd.Intent(req.Actor, req.Candidates))
}

// CancelRequest is a no-op; scripted requests never stay pending
func (s *Scripted) CancelRequest() {}

// Remaining reports how many scripted commands are left
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands) - s.next
}

// Autopilot plays the hero in simulations: it spends a full shield on the
// skill and otherwise attacks the weakest living candidate
type Autopilot struct{}

var _ policy.DecisionSource = Autopilot{}

// RequestAction answers immediately
func (Autopilot) RequestAction(_ context.Context, req *policy.ActionRequest, onDecision func(combat.Intent)) {
	target := weakest(req.Candidates)

	kind := combat.ActionAttack
	if ch := req.Actor.Charges(); ch != nil && ch.Count() > 0 && ch.Count() == ch.Max() {
		kind = combat.ActionShieldSkill
	}

	onDecision(combat.Intent{Kind: kind, Actor: req.Actor, Target: target})
}

// CancelRequest is a no-op
func (Autopilot) CancelRequest() {}

func weakest(actors []*combat.Actor) *combat.Actor {
	var pick *combat.Actor
	for _, a := range actors {
		if !a.IsAlive() {
			continue
		}
		if pick == nil || a.HP() < pick.HP() {
			pick = a
		}
	}
	return pick
}
