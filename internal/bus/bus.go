// Package bus is the combat event stream. It wraps the rpg-toolkit event bus
// with typed publish and subscribe helpers so collaborators never touch the
// untyped event context.
package bus

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
)

// Event types
const (
	EventDamageApplied  = "combat.damage_applied"
	EventParrySuccess   = "combat.parry_success"
	EventActorDied      = "combat.actor_died"
	EventStepStarted    = "combat.step_started"
	EventStepEnded      = "combat.step_ended"
	EventTurnStarted    = "combat.turn_started"
	EventEncounterEnded = "combat.encounter_ended"
)

const payloadKey = "payload"

// DamageApplied reports HP removed by a Damage step. Amount is the final
// damage after parry and defend.
type DamageApplied struct {
	Attacker *combat.Actor
	Target   *combat.Actor
	Amount   int
	Parried  bool
}

// ParrySuccess reports an attack nullified by a timed tap
type ParrySuccess struct {
	Attacker *combat.Actor
	Target   *combat.Actor
}

// ActorDied reports an actor whose HP reached zero
type ActorDied struct {
	Actor  *combat.Actor
	Killer *combat.Actor
}

// TurnStarted reports the actor selected for a turn
type TurnStarted struct {
	Turn  int
	Actor *combat.Actor
}

// EncounterEnded reports the terminal outcome
type EncounterEnded struct {
	EncounterID string
	Outcome     combat.Outcome
	Turns       int
}

// Config holds the dependencies for the combat bus
type Config struct {
	// EventBus defaults to a fresh toolkit bus
	EventBus events.EventBus
}

// Bus publishes and subscribes combat events
type Bus struct {
	events events.EventBus
}

var _ sequencer.Observer = (*Bus)(nil)

// New creates a combat bus
func New(cfg *Config) (*Bus, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}

	eventBus := cfg.EventBus
	if eventBus == nil {
		eventBus = events.NewBus()
	}

	return &Bus{events: eventBus}, nil
}

// EventBus exposes the underlying toolkit bus
func (b *Bus) EventBus() events.EventBus {
	return b.events
}

// PublishDamageApplied emits a damage-applied event
func (b *Bus) PublishDamageApplied(ctx context.Context, ev DamageApplied) error {
	return publish(ctx, b, EventDamageApplied, entity(ev.Attacker), entity(ev.Target), ev)
}

// PublishParrySuccess emits a parry-success event
func (b *Bus) PublishParrySuccess(ctx context.Context, ev ParrySuccess) error {
	return publish(ctx, b, EventParrySuccess, entity(ev.Attacker), entity(ev.Target), ev)
}

// PublishActorDied emits an actor-died event
func (b *Bus) PublishActorDied(ctx context.Context, ev ActorDied) error {
	return publish(ctx, b, EventActorDied, entity(ev.Killer), entity(ev.Actor), ev)
}

// PublishTurnStarted emits a turn-started event
func (b *Bus) PublishTurnStarted(ctx context.Context, ev TurnStarted) error {
	return publish(ctx, b, EventTurnStarted, entity(ev.Actor), nil, ev)
}

// PublishEncounterEnded emits an encounter-ended event
func (b *Bus) PublishEncounterEnded(ctx context.Context, ev EncounterEnded) error {
	return publish(ctx, b, EventEncounterEnded, nil, nil, ev)
}

// StepStarted publishes a step-started event
func (b *Bus) StepStarted(ctx context.Context, ev sequencer.StepEvent) {
	if err := publish(ctx, b, EventStepStarted, nil, nil, ev); err != nil {
		slog.Warn("Failed to publish step started", "label", ev.Label, "error", err)
	}
}

// StepEnded publishes a step-ended event
func (b *Bus) StepEnded(ctx context.Context, ev sequencer.StepEvent) {
	if err := publish(ctx, b, EventStepEnded, nil, nil, ev); err != nil {
		slog.Warn("Failed to publish step ended", "label", ev.Label, "error", err)
	}
}

// OnDamageApplied subscribes to damage-applied events
func (b *Bus) OnDamageApplied(fn func(context.Context, DamageApplied)) string {
	return subscribe(b, EventDamageApplied, fn)
}

// OnParrySuccess subscribes to parry-success events
func (b *Bus) OnParrySuccess(fn func(context.Context, ParrySuccess)) string {
	return subscribe(b, EventParrySuccess, fn)
}

// OnActorDied subscribes to actor-died events
func (b *Bus) OnActorDied(fn func(context.Context, ActorDied)) string {
	return subscribe(b, EventActorDied, fn)
}

// OnStepStarted subscribes to step-started events
func (b *Bus) OnStepStarted(fn func(context.Context, sequencer.StepEvent)) string {
	return subscribe(b, EventStepStarted, fn)
}

// OnStepEnded subscribes to step-ended events
func (b *Bus) OnStepEnded(fn func(context.Context, sequencer.StepEvent)) string {
	return subscribe(b, EventStepEnded, fn)
}

// OnTurnStarted subscribes to turn-started events
func (b *Bus) OnTurnStarted(fn func(context.Context, TurnStarted)) string {
	return subscribe(b, EventTurnStarted, fn)
}

// OnEncounterEnded subscribes to encounter-ended events
func (b *Bus) OnEncounterEnded(fn func(context.Context, EncounterEnded)) string {
	return subscribe(b, EventEncounterEnded, fn)
}

// Unsubscribe removes a subscription by ID
func (b *Bus) Unsubscribe(id string) error {
	if err := b.events.Unsubscribe(id); err != nil {
		return errors.Wrapf(err, "failed to unsubscribe %s", id)
	}
	return nil
}

func publish[T any](ctx context.Context, b *Bus, eventType string, source, target core.Entity, payload T) error {
	event := events.NewGameEvent(eventType, source, target)
	event.Context().Set(payloadKey, payload)

	if err := b.events.Publish(ctx, event); err != nil {
		return errors.Wrapf(err, "failed to publish %s", eventType)
	}
	return nil
}

func subscribe[T any](b *Bus, eventType string, fn func(context.Context, T)) string {
	return b.events.SubscribeFunc(eventType, 0, func(ctx context.Context, event events.Event) error {
		raw, ok := event.Context().Get(payloadKey)
		if !ok {
			slog.Warn("Combat event without payload", "type", eventType)
			return nil
		}
		payload, ok := raw.(T)
		if !ok {
			slog.Warn("Combat event with unexpected payload", "type", eventType)
			return nil
		}
		dispatch(ctx, eventType, fn, payload)
		return nil
	})
}

// dispatch runs one subscriber; a panicking subscriber is logged and the
// remaining subscribers still run
func dispatch[T any](ctx context.Context, eventType string, fn func(context.Context, T), payload T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Combat event subscriber panicked", "type", eventType, "panic", r)
		}
	}()
	fn(ctx, payload)
}

// entity keeps a nil actor from becoming a non-nil interface
func entity(a *combat.Actor) core.Entity {
	if a == nil {
		return nil
	}
	return a
}
