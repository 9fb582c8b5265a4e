package combat

import (
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

// ActorConfig describes one roster entry
type ActorConfig struct {
	ID     string
	Name   string
	Team   Team
	MaxHP  int
	Attack int

	// Shield enables a charge accumulator; nil means the actor cannot bank charges
	Shield *ShieldConfig
}

// ShieldConfig configures an actor's charge accumulator
type ShieldConfig struct {
	MaxCharges      int
	DamagePerCharge int
}

// Validate ensures the roster entry is usable
func (c *ActorConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("ID", c.ID, vb)
	errors.ValidateRequired("Name", c.Name, vb)
	errors.ValidatePositive("MaxHP", c.MaxHP, vb)
	if c.Attack < 0 {
		vb.Field("Attack", "must not be negative")
	}
	if c.Team != TeamPlayer && c.Team != TeamEnemy {
		vb.InvalidField("Team", c.Team.String())
	}

	return vb.Build()
}

// Actor is a combatant. HP only ever goes down; there is no heal.
type Actor struct {
	id     string
	name   string
	team   Team
	maxHP  int
	attack int

	mu        sync.Mutex
	hp        int
	defending bool

	charges *ShieldCharges
}

// NewActor creates an actor at full health
func NewActor(cfg *ActorConfig) (*Actor, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid actor config")
	}

	a := &Actor{
		id:     cfg.ID,
		name:   cfg.Name,
		team:   cfg.Team,
		maxHP:  cfg.MaxHP,
		attack: cfg.Attack,
		hp:     cfg.MaxHP,
	}
	if cfg.Shield != nil {
		a.charges = NewShieldCharges(cfg.Shield.MaxCharges, cfg.Shield.DamagePerCharge)
	}
	return a, nil
}

var _ core.Entity = (*Actor)(nil)

// GetID returns the actor ID
func (a *Actor) GetID() string { return a.id }

// GetType returns the team name, which is how toolkit events classify actors
func (a *Actor) GetType() string { return a.team.String() }

// Name returns the display name
func (a *Actor) Name() string { return a.name }

// Team returns the actor's side
func (a *Actor) Team() Team { return a.team }

// MaxHP returns the maximum hit points
func (a *Actor) MaxHP() int { return a.maxHP }

// Attack returns the attack stat
func (a *Actor) Attack() int { return a.attack }

// Charges returns the shield accumulator, or nil when the actor has none
func (a *Actor) Charges() *ShieldCharges { return a.charges }

// HP returns current hit points
func (a *Actor) HP() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hp
}

// IsAlive reports whether the actor still has hit points
func (a *Actor) IsAlive() bool {
	return a.HP() > 0
}

// HPFraction returns hp/maxHP in [0, 1]
func (a *Actor) HPFraction() float64 {
	return float64(a.HP()) / float64(max(1, a.maxHP))
}

// IsDefending reports whether the next incoming hit will be halved
func (a *Actor) IsDefending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.defending
}

// Defend halves the next incoming hit
func (a *Actor) Defend() {
	a.mu.Lock()
	a.defending = true
	a.mu.Unlock()

	slog.Debug("Actor defending", "actor", a.name)
}

// TakeDamage applies an incoming hit and returns the final damage after
// defending, which may exceed the HP left. A defending actor takes
// ceil(amount/2). Every hit clears the defending flag, even a zero-damage one.
func (a *Actor) TakeDamage(amount int) int {
	amount = max(amount, 0)

	a.mu.Lock()
	if a.defending {
		amount = (amount + 1) / 2
		a.defending = false
	}
	before := a.hp
	a.hp = max(0, a.hp-amount)
	hp := a.hp
	a.mu.Unlock()

	slog.Debug("Actor took damage",
		"actor", a.name,
		"amount", amount,
		"hp", hp,
		"max_hp", a.maxHP,
	)
	if hp == 0 && before > 0 {
		slog.Info("Actor fell", "actor", a.name)
	}
	return amount
}

// ActorStatus is a point-in-time view of an actor for boards and snapshots
type ActorStatus struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Team       string `json:"team"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"max_hp"`
	Defending  bool   `json:"defending,omitempty"`
	Charges    int    `json:"charges,omitempty"`
	MaxCharges int    `json:"max_charges,omitempty"`
}

// Status captures the actor's current state
func (a *Actor) Status() ActorStatus {
	a.mu.Lock()
	hp, defending := a.hp, a.defending
	a.mu.Unlock()

	st := ActorStatus{
		ID:        a.id,
		Name:      a.name,
		Team:      a.team.String(),
		HP:        hp,
		MaxHP:     a.maxHP,
		Defending: defending,
	}
	if a.charges != nil {
		st.Charges = a.charges.Count()
		st.MaxCharges = a.charges.Max()
	}
	return st
}
