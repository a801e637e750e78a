package driven

import (
	"context"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// RebuildRunStore persists the audit trail of rebuild runs.
type RebuildRunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.RebuildRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RebuildRun, error)

	// List returns the most recent runs, newest first.
	// A limit of zero or less returns every run.
	List(ctx context.Context, limit int) ([]domain.RebuildRun, error)
}
