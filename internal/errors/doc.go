// Package errors provides the structured error type used across rpg-skirmish.
//
// Errors carry a Code, a human readable message, an optional cause and optional
// metadata. Codes survive wrapping so callers can branch on them at the edges
// (the CLI, the scheduler) without string matching.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("encounter not found")
//	err := errors.InvalidArgumentf("unknown action kind: %d", kind)
//
// Adding metadata:
//
//	err := errors.FailedPrecondition("actor is dead").
//	    WithMeta("actor_id", actor.GetID())
//
// Wrapping errors:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save board snapshot")
//	}
//
// # Validation Errors
//
// Dependency configs validate themselves with the builder:
//
//	vb := errors.NewValidationBuilder()
//	if c.Clock == nil {
//	    vb.RequiredField("Clock")
//	}
//	return vb.Build()
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return NotFound for missing snapshots
//   - Wrap storage errors with context
//
// Combat layer (resolver, scheduler, policies):
//   - Return InvalidArgument for malformed intents or configs
//   - Return FailedPrecondition when the encounter cannot run
//   - Return Aborted when a run is stopped by a turn limit
//
// CLI layer:
//   - Print the message and exit non-zero
package errors
