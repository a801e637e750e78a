package driven

import (
	"context"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// SearchEngine manages indexes and documents of the search engine.
// Backed by Meilisearch. Every mutating call returns only once the engine
// has finished applying it, so a nil error means the change is visible.
type SearchEngine interface {
	// Version returns the engine's version string. Used as a connectivity probe.
	Version(ctx context.Context) (string, error)

	// ListIndexes returns the UIDs of every index present.
	ListIndexes(ctx context.Context) ([]string, error)

	// DeleteIndex removes an index and all its documents.
	DeleteIndex(ctx context.Context, uid string) error

	// CreateIndex creates an empty index with the given primary key.
	CreateIndex(ctx context.Context, uid, primaryKey string) error

	// ConfigureIndex applies pagination, filterable, sortable, searchable
	// and distinct attribute settings.
	ConfigureIndex(ctx context.Context, schema domain.IndexSchema) error

	// AddDocuments submits documents to an index in one call.
	AddDocuments(ctx context.Context, uid string, docs []domain.SearchDocument) error
}
