package input_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
)

type countingTapper struct {
	mu   sync.Mutex
	taps int
}

func (t *countingTapper) RegisterTap() {
	t.mu.Lock()
	t.taps++
	t.mu.Unlock()
}

func (t *countingTapper) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.taps
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type decisions struct {
	mu      sync.Mutex
	intents []combat.Intent
}

func (d *decisions) record(i combat.Intent) {
	d.mu.Lock()
	d.intents = append(d.intents, i)
	d.mu.Unlock()
}

func (d *decisions) all() []combat.Intent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]combat.Intent(nil), d.intents...)
}

func newActor(t *testing.T, id string, team combat.Team, hp int, shield bool) *combat.Actor {
	t.Helper()
	cfg := &combat.ActorConfig{ID: id, Name: id, Team: team, MaxHP: hp, Attack: 5}
	if shield {
		cfg.Shield = &combat.ShieldConfig{MaxCharges: 3, DamagePerCharge: 2}
	}
	a, err := combat.NewActor(cfg)
	require.NoError(t, err)
	return a
}

func request(actor *combat.Actor, candidates ...*combat.Actor) *policy.ActionRequest {
	return &policy.ActionRequest{Actor: actor, Candidates: candidates}
}

var background = context.Background()
