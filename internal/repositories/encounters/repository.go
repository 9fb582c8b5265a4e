// Package encounters stores per-turn board snapshots of running encounters.
// Snapshots are a read model for HUD consumers; nothing loads them back into
// a fight.
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountersmock github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
)

// Repository defines the storage interface for board snapshots
type Repository interface {
	// Save records a snapshot as the latest and appends it to the history
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves the latest snapshot of an encounter
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// ListHistory returns every snapshot of an encounter, oldest first
	ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error)

	// Delete removes an encounter's snapshots
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// Snapshot is the board after one turn
type Snapshot struct {
	EncounterID string               `json:"encounter_id"`
	Turn        int                  `json:"turn"`
	ActorID     string               `json:"actor_id,omitempty"`
	Intent      string               `json:"intent,omitempty"`
	Outcome     string               `json:"outcome"`
	Actors      []combat.ActorStatus `json:"actors"`
	RecordedAt  time.Time            `json:"recorded_at"`
}

// SaveInput defines the request for saving a snapshot
type SaveInput struct {
	Snapshot *Snapshot
}

// SaveOutput defines the response for saving a snapshot
type SaveOutput struct{}

// GetInput defines the request for retrieving the latest snapshot
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response for retrieving the latest snapshot
type GetOutput struct {
	Snapshot *Snapshot
}

// ListHistoryInput defines the request for listing snapshots
type ListHistoryInput struct {
	EncounterID string
}

// ListHistoryOutput defines the response for listing snapshots
type ListHistoryOutput struct {
	Snapshots []*Snapshot
}

// DeleteInput defines the request for deleting snapshots
type DeleteInput struct {
	EncounterID string
}

// DeleteOutput defines the response for deleting snapshots
type DeleteOutput struct{}

func cloneSnapshot(s *Snapshot) *Snapshot {
	c := *s
	c.Actors = append([]combat.ActorStatus(nil), s.Actors...)
	return &c
}
