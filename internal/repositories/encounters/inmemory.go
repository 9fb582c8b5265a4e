package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu      sync.RWMutex
	latest  map[string]*Snapshot
	history map[string][]*Snapshot
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		latest:  make(map[string]*Snapshot),
		history: make(map[string][]*Snapshot),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Save stores a snapshot
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	snap := cloneSnapshot(input.Snapshot)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.latest[snap.EncounterID] = snap
	r.history[snap.EncounterID] = append(r.history[snap.EncounterID], snap)

	return &SaveOutput{}, nil
}

// Get retrieves the latest snapshot
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, exists := r.latest[input.EncounterID]
	if !exists {
		return nil, errors.NotFound("encounter snapshot not found")
	}

	// Return a copy to prevent external modification
	return &GetOutput{Snapshot: cloneSnapshot(snap)}, nil
}

// ListHistory returns all snapshots, oldest first
func (r *InMemoryRepository) ListHistory(_ context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.history[input.EncounterID]
	out := make([]*Snapshot, len(history))
	for i, snap := range history {
		out[i] = cloneSnapshot(snap)
	}

	return &ListHistoryOutput{Snapshots: out}, nil
}

// Delete removes an encounter's snapshots
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.latest[input.EncounterID]; !exists {
		return nil, errors.NotFound("encounter snapshot not found")
	}

	delete(r.latest, input.EncounterID)
	delete(r.history, input.EncounterID)

	return &DeleteOutput{}, nil
}
