// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"sync"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
	encountersmock "github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters/mock"
	"github.com/KirkDiggler/rpg-skirmish/internal/resolver"
	resolvermock "github.com/KirkDiggler/rpg-skirmish/internal/resolver/mock"
)

// ExpectInstantResolve makes the resolver land every attack and skill at once,
// with no timeline or parry
func ExpectInstantResolve(mockResolver *resolvermock.MockService) *gomock.Call {
	return mockResolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, intent combat.Intent) (*resolver.Outcome, error) {
			switch intent.Kind {
			case combat.ActionAttack, combat.ActionShieldSkill:
				if intent.Target != nil && intent.Target.IsAlive() {
					intent.Target.TakeDamage(intent.Amount)
				}
			case combat.ActionDefend:
				intent.Actor.Defend()
			}
			return &resolver.Outcome{Intent: intent, PlannedDamage: intent.Amount}, nil
		}).
		AnyTimes()
}

// SnapshotRecorder collects saved snapshots
type SnapshotRecorder struct {
	mu        sync.Mutex
	snapshots []*encounters.Snapshot
}

// Snapshots returns what was saved so far
func (r *SnapshotRecorder) Snapshots() []*encounters.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*encounters.Snapshot(nil), r.snapshots...)
}

// ExpectSnapshotSaves records every Save call on the repository mock
func ExpectSnapshotSaves(mockRepo *encountersmock.MockRepository) (*SnapshotRecorder, *gomock.Call) {
	rec := &SnapshotRecorder{}
	call := mockRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *encounters.SaveInput) (*encounters.SaveOutput, error) {
			rec.mu.Lock()
			rec.snapshots = append(rec.snapshots, input.Snapshot)
			rec.mu.Unlock()
			return &encounters.SaveOutput{}, nil
		})
	return rec, call
}
