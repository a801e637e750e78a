// Package messages defines Bubbletea message types for the rebuild progress view.
package messages

import (
	"time"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driving"
)

// PollTick asks the model to read the rebuild status again.
type PollTick time.Time

// StatusPolled carries a status snapshot back to the model.
type StatusPolled struct {
	Status driving.RebuildStatus
	Err    error
}

// RebuildFinished is sent once when the rebuild returns.
type RebuildFinished struct {
	Run *domain.RebuildRun
	Err error
}
