package policy_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
)

// scriptedRoller replays fixed rolls, then keeps returning the last one
type scriptedRoller struct {
	mu    sync.Mutex
	rolls []int
	err   error
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}
	if len(r.rolls) == 0 {
		return 1, nil
	}
	v := r.rolls[0]
	if len(r.rolls) > 1 {
		r.rolls = r.rolls[1:]
	}
	return min(v, size), nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// chanceRoll returns the d10000 face that draws probability p
func chanceRoll(p float64) int {
	return int(p*10000) + 1
}

type labelRecorder struct {
	mu     sync.Mutex
	labels []string
}

func (r *labelRecorder) StepStarted(_ context.Context, ev sequencer.StepEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = append(r.labels, ev.Label)
}

func (r *labelRecorder) StepEnded(context.Context, sequencer.StepEvent) {}

func (r *labelRecorder) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.labels...)
}

func newActor(id string, team combat.Team, hp, attack int) *combat.Actor {
	a, err := combat.NewActor(&combat.ActorConfig{
		ID:     id,
		Name:   id,
		Team:   team,
		MaxHP:  hp,
		Attack: attack,
		Shield: &combat.ShieldConfig{},
	})
	if err != nil {
		panic(fmt.Sprintf("bad test actor: %v", err))
	}
	return a
}

// decideSync runs Decide and waits for the callback
func decideSync(ctx context.Context, decide func(context.Context, func(combat.Intent))) (combat.Intent, bool) {
	got := make(chan combat.Intent, 1)
	decide(ctx, func(in combat.Intent) { got <- in })

	select {
	case in := <-got:
		return in, true
	case <-time.After(2 * time.Second):
		return combat.Intent{}, false
	}
}
