package driving

import (
	"context"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// Rebuilder runs full index rebuilds.
type Rebuilder interface {
	// Rebuild wipes every index and rebuilds the search index from the
	// content backend. Only one rebuild runs at a time.
	Rebuild(ctx context.Context, trigger domain.RebuildTrigger) (*domain.RebuildRun, error)

	// Start begins a rebuild in the background and returns once it holds
	// the single-flight slot. It fails with domain.ErrRebuildInProgress
	// when another rebuild is running. The channel receives one result.
	Start(ctx context.Context, trigger domain.RebuildTrigger) (<-chan RebuildResult, error)

	// Status returns the progress of the current rebuild.
	Status(ctx context.Context) (*RebuildStatus, error)

	// History returns the most recent recorded runs, newest first.
	History(ctx context.Context, limit int) ([]domain.RebuildRun, error)
}

// RebuildResult is the outcome of a rebuild begun with Start.
type RebuildResult struct {
	Run *domain.RebuildRun
	Err error
}

// RebuildStatus represents the progress of a rebuild.
type RebuildStatus struct {
	// Running indicates if a rebuild is in progress.
	Running bool

	// RunID identifies the current or last run.
	RunID string

	// Phase is the step being executed.
	Phase domain.RebuildPhase

	// Category is the category being transformed during PhaseTransform.
	Category domain.Category

	// ItemsProcessed is the number of content items transformed so far.
	ItemsProcessed int

	// ItemsTotal is the number of content items in the inventory.
	ItemsTotal int

	// Documents is the number of documents accumulated so far.
	Documents int
}

// Fraction returns transform progress in [0, 1].
func (s RebuildStatus) Fraction() float64 {
	if s.ItemsTotal <= 0 {
		return 0
	}
	f := float64(s.ItemsProcessed) / float64(s.ItemsTotal)
	if f > 1 {
		return 1
	}
	return f
}
