package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// Ensure RebuildRunStore implements the interface.
var _ driven.RebuildRunStore = (*RebuildRunStore)(nil)

// RebuildRunStore is an in-memory implementation of driven.RebuildRunStore.
type RebuildRunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RebuildRun
}

// NewRebuildRunStore creates a new in-memory rebuild run store.
func NewRebuildRunStore() *RebuildRunStore {
	return &RebuildRunStore{
		runs: make(map[string]domain.RebuildRun),
	}
}

// Save stores or updates a run.
func (s *RebuildRunStore) Save(_ context.Context, run domain.RebuildRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// Get retrieves a run by ID.
func (s *RebuildRunStore) Get(_ context.Context, id string) (*domain.RebuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// List returns the most recent runs, newest first.
func (s *RebuildRunStore) List(_ context.Context, limit int) ([]domain.RebuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.RebuildRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
