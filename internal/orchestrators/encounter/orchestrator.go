// Package encounter implements the turn scheduler that drives one skirmish
// to its end
package encounter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-skirmish/internal/resolver"
)

// Service defines the interface for running an encounter
type Service interface {
	// Run drives the encounter until one side has nobody standing
	Run(ctx context.Context, input *RunInput) (*RunOutput, error)

	// AliveActors returns the living actors in turn order
	AliveActors() []*combat.Actor

	// CurrentActor returns the actor whose turn is in progress, or nil
	CurrentActor() *combat.Actor

	// Actors returns the full roster in turn order
	Actors() []*combat.Actor

	// Board returns every actor's current status in turn order
	Board() []combat.ActorStatus
}

// Stage is the presentation runner the scheduler waits on between turns
type Stage interface {
	Wait(ctx context.Context) error
}

// Publisher receives turn lifecycle events
type Publisher interface {
	PublishTurnStarted(ctx context.Context, ev bus.TurnStarted) error
	PublishEncounterEnded(ctx context.Context, ev bus.EncounterEnded) error
}

// Config holds the dependencies for the turn scheduler
type Config struct {
	Combatants []Combatant
	Resolver   resolver.Service
	Stage      Stage

	// Publisher is optional
	Publisher Publisher
	// Repository is optional; when set a board snapshot is saved after every turn
	Repository encounters.Repository
	// IDGenerator defaults to a sequential "encounter" generator
	IDGenerator idgen.Generator
	// Clock stamps snapshots and defaults to the real clock
	Clock clock.Clock

	// StrictContracts panics when a policy decides more than once per turn
	StrictContracts bool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(c.Combatants) == 0 {
		vb.RequiredField("Combatants")
	}
	seen := make(map[string]bool, len(c.Combatants))
	for i, cb := range c.Combatants {
		if cb.Actor == nil {
			vb.Fieldf("Combatants", "entry %d has no actor", i)
			continue
		}
		if cb.Policy == nil {
			vb.Fieldf("Combatants", "%s has no policy", cb.Actor.Name())
		}
		if seen[cb.Actor.GetID()] {
			vb.Fieldf("Combatants", "duplicate actor ID %s", cb.Actor.GetID())
		}
		seen[cb.Actor.GetID()] = true
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Stage == nil {
		vb.RequiredField("Stage")
	}

	return vb.Build()
}

type orchestrator struct {
	order      *TurnOrder
	policies   map[string]policy.Policy
	resolver   resolver.Service
	stage      Stage
	publisher  Publisher
	repository encounters.Repository
	idGen      idgen.Generator
	clock      clock.Clock
	strict     bool

	running atomic.Bool

	mu      sync.RWMutex
	current *combat.Actor
}

// NewScheduler creates a turn scheduler with the provided dependencies
func NewScheduler(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Refusing to start encounter", "error", err)
		return nil, errors.Wrap(err, "invalid config")
	}

	actors := make([]*combat.Actor, len(cfg.Combatants))
	policies := make(map[string]policy.Policy, len(cfg.Combatants))
	for i, cb := range cfg.Combatants {
		actors[i] = cb.Actor
		policies[cb.Actor.GetID()] = cb.Policy
	}

	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = idgen.NewSequential("encounter")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &orchestrator{
		order:      NewTurnOrder(actors),
		policies:   policies,
		resolver:   cfg.Resolver,
		stage:      cfg.Stage,
		publisher:  cfg.Publisher,
		repository: cfg.Repository,
		idGen:      idGen,
		clock:      clk,
		strict:     cfg.StrictContracts,
	}, nil
}

// Run drives the encounter. Victory is checked at the start of every cycle,
// never mid-turn.
func (o *orchestrator) Run(ctx context.Context, input *RunInput) (*RunOutput, error) {
	if input == nil {
		input = &RunInput{}
	}
	if !o.running.CompareAndSwap(false, true) {
		return nil, errors.FailedPrecondition("encounter is already running")
	}
	defer o.running.Store(false)

	encounterID := o.idGen.Generate()
	slog.Info("Encounter started",
		"encounter_id", encounterID,
		"actor_count", len(o.order.Actors()),
	)

	turns := 0
	for {
		if outcome := CheckVictory(o.order.Actors()); outcome != combat.OutcomeNone {
			return o.finish(ctx, encounterID, outcome, turns), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "encounter interrupted")
		}
		if input.MaxTurns > 0 && turns >= input.MaxTurns {
			return nil, errors.Abortedf("encounter %s hit the %d turn limit", encounterID, input.MaxTurns)
		}

		actor := o.order.Next()
		if actor == nil {
			return nil, errors.FailedPrecondition("no living actor can take a turn")
		}
		turns++

		if err := o.playTurn(ctx, encounterID, turns, actor); err != nil {
			return nil, err
		}
	}
}

func (o *orchestrator) playTurn(ctx context.Context, encounterID string, turn int, actor *combat.Actor) error {
	o.setCurrent(actor)
	defer o.setCurrent(nil)

	slog.Info("Turn started",
		"encounter_id", encounterID,
		"turn", turn,
		"actor", actor.Name(),
		"hp", actor.HP(),
	)
	if o.publisher != nil {
		if err := o.publisher.PublishTurnStarted(ctx, bus.TurnStarted{Turn: turn, Actor: actor}); err != nil {
			slog.Warn("Failed to publish turn started", "error", err)
		}
	}

	intent, err := o.requestDecision(ctx, actor)
	if err != nil {
		return err
	}
	if intent.Actor == nil {
		intent.Actor = actor
	}

	if !actor.IsAlive() {
		slog.Info("Actor fell before acting, skipping", "actor", actor.Name())
	} else if _, err := o.resolver.Resolve(ctx, intent); err != nil {
		slog.Warn("Failed to resolve intent",
			"encounter_id", encounterID,
			"intent", intent.String(),
			"error", err,
		)
	}

	if err := o.stage.Wait(ctx); err != nil {
		return errors.Wrap(err, "waiting for turn playback")
	}

	o.saveSnapshot(ctx, encounterID, turn, actor, intent, combat.OutcomeNone)
	return nil
}

// requestDecision blocks until the actor's policy decides exactly once
func (o *orchestrator) requestDecision(ctx context.Context, actor *combat.Actor) (combat.Intent, error) {
	decisions := make(chan combat.Intent, 1)
	var calls atomic.Int32

	decide := func(intent combat.Intent) {
		if calls.Add(1) > 1 {
			if o.strict {
				panic(fmt.Sprintf("policy for %s decided more than once in one turn", actor.Name()))
			}
			slog.Warn("Ignoring duplicate decision", "actor", actor.Name(), "intent", intent.String())
			return
		}
		decisions <- intent
	}

	decideCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.policies[actor.GetID()].Decide(decideCtx, o.viewFor(actor), decide)

	select {
	case intent := <-decisions:
		return intent, nil
	case <-ctx.Done():
		return combat.Intent{}, errors.Wrapf(ctx.Err(), "waiting for %s to decide", actor.Name())
	}
}

func (o *orchestrator) viewFor(self *combat.Actor) policy.View {
	view := policy.View{Self: self}
	for _, a := range o.order.Alive() {
		switch {
		case a == self:
		case a.Team() == self.Team():
			view.Allies = append(view.Allies, a)
		default:
			view.Opponents = append(view.Opponents, a)
		}
	}
	return view
}

func (o *orchestrator) finish(ctx context.Context, encounterID string, outcome combat.Outcome, turns int) *RunOutput {
	slog.Info("Encounter ended",
		"encounter_id", encounterID,
		"outcome", outcome.String(),
		"turns", turns,
	)

	o.saveSnapshot(ctx, encounterID, turns, nil, combat.Intent{}, outcome)
	if o.publisher != nil {
		if err := o.publisher.PublishEncounterEnded(ctx, bus.EncounterEnded{
			EncounterID: encounterID,
			Outcome:     outcome,
			Turns:       turns,
		}); err != nil {
			slog.Warn("Failed to publish encounter ended", "error", err)
		}
	}

	return &RunOutput{
		EncounterID: encounterID,
		Outcome:     outcome,
		Turns:       turns,
	}
}

func (o *orchestrator) saveSnapshot(
	ctx context.Context, encounterID string, turn int,
	actor *combat.Actor, intent combat.Intent, outcome combat.Outcome,
) {
	if o.repository == nil {
		return
	}

	snap := &encounters.Snapshot{
		EncounterID: encounterID,
		Turn:        turn,
		Outcome:     outcome.String(),
		Actors:      o.Board(),
		RecordedAt:  o.clock.Now(),
	}
	if actor != nil {
		snap.ActorID = actor.GetID()
		snap.Intent = intent.String()
	}

	if _, err := o.repository.Save(ctx, &encounters.SaveInput{Snapshot: snap}); err != nil {
		slog.Warn("Failed to save board snapshot",
			"encounter_id", encounterID,
			"turn", turn,
			"error", err,
		)
	}
}

func (o *orchestrator) setCurrent(a *combat.Actor) {
	o.mu.Lock()
	o.current = a
	o.mu.Unlock()
}

// AliveActors returns the living actors in turn order
func (o *orchestrator) AliveActors() []*combat.Actor {
	return o.order.Alive()
}

// CurrentActor returns the actor whose turn is in progress
func (o *orchestrator) CurrentActor() *combat.Actor {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// Actors returns the full roster in turn order
func (o *orchestrator) Actors() []*combat.Actor {
	return o.order.Actors()
}

// Board returns every actor's status in turn order
func (o *orchestrator) Board() []combat.ActorStatus {
	actors := o.order.Actors()
	board := make([]combat.ActorStatus, len(actors))
	for i, a := range actors {
		board[i] = a.Status()
	}
	return board
}
