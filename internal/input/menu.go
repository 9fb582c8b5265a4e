package input

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
)

// Menu lets the player pick an action kind
type Menu interface {
	Open(ctx context.Context, actor *combat.Actor, onChosen func(combat.ActionKind))
	Close()
}

// TargetSelector lets the player pick one of the candidates
type TargetSelector interface {
	Open(ctx context.Context, candidates []*combat.Actor, onChosen func(*combat.Actor))
	Close()
}

// MenuThenTargetConfig holds the dependencies for a menu driven source
type MenuThenTargetConfig struct {
	Menu Menu

	// Selector is optional; without one the first candidate is used
	Selector TargetSelector
}

// Validate ensures all required dependencies are provided
func (c *MenuThenTargetConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Menu == nil {
		vb.RequiredField("Menu")
	}

	return vb.Build()
}

// MenuThenTarget asks for an action first and then, for targeted actions,
// for a target. It degrades to Wait when nobody can be targeted.
type MenuThenTarget struct {
	menu     Menu
	selector TargetSelector

	mu      sync.Mutex
	pending *pendingRequest
	// request identifies the pending request so late callbacks are dropped
	request uint64
}

var _ policy.DecisionSource = (*MenuThenTarget)(nil)

// NewMenuThenTarget creates a menu driven source
func NewMenuThenTarget(cfg *MenuThenTargetConfig) (*MenuThenTarget, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &MenuThenTarget{
		menu:     cfg.Menu,
		selector: cfg.Selector,
	}, nil
}

// RequestAction opens the menu
func (m *MenuThenTarget) RequestAction(ctx context.Context, req *policy.ActionRequest, onDecision func(combat.Intent)) {
	m.mu.Lock()
	m.request++
	id := m.request
	m.pending = &pendingRequest{req: req, onDecision: onDecision}
	m.mu.Unlock()

	m.menu.Open(ctx, req.Actor, func(kind combat.ActionKind) {
		m.onAction(ctx, id, kind)
	})
}

func (m *MenuThenTarget) onAction(ctx context.Context, id uint64, kind combat.ActionKind) {
	p := m.current(id)
	if p == nil {
		return
	}
	m.menu.Close()

	if !kind.NeedsTarget() {
		m.submit(id, combat.Intent{Kind: kind, Actor: p.req.Actor})
		return
	}

	candidates := p.req.Candidates
	if len(candidates) == 0 {
		slog.Info("No candidates, degrading to wait", "actor", p.req.Actor.Name())
		m.submit(id, combat.WaitIntent(p.req.Actor))
		return
	}

	if m.selector == nil {
		m.submit(id, combat.Intent{Kind: kind, Actor: p.req.Actor, Target: candidates[0]})
		return
	}

	m.selector.Open(ctx, candidates, func(target *combat.Actor) {
		if m.current(id) == nil {
			return
		}
		m.selector.Close()
		m.submit(id, combat.Intent{Kind: kind, Actor: p.req.Actor, Target: target})
	})
}

func (m *MenuThenTarget) current(id uint64) *pendingRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.request != id {
		return nil
	}
	return m.pending
}

func (m *MenuThenTarget) submit(id uint64, intent combat.Intent) {
	m.mu.Lock()
	if m.request != id || m.pending == nil {
		m.mu.Unlock()
		return
	}
	p := m.pending
	m.pending = nil
	m.mu.Unlock()

	p.onDecision(intent)
}

// CancelRequest closes any open menu or selector and drops the request
func (m *MenuThenTarget) CancelRequest() {
	m.mu.Lock()
	m.pending = nil
	m.request++
	m.mu.Unlock()

	if m.selector != nil {
		m.selector.Close()
	}
	m.menu.Close()
}
