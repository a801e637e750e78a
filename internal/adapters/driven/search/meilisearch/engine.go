package meilisearch

import (
	"context"
	"fmt"
	"time"

	ms "github.com/meilisearch/meilisearch-go"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
	"github.com/accords-library/search-sync/internal/logger"
)

const (
	// DefaultPollInterval is how often task status is polled.
	DefaultPollInterval = 50 * time.Millisecond

	// listPageSize is the page size used when listing indexes.
	listPageSize = 1000
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Config holds the connection settings of an Engine.
type Config struct {
	// URL is the Meilisearch host, e.g. "http://localhost:7700".
	URL string
	// APIKey is the master or admin key.
	APIKey string
	// PollInterval overrides DefaultPollInterval.
	PollInterval time.Duration
}

// Engine is a Meilisearch-backed search engine.
type Engine struct {
	client       ms.ServiceManager
	pollInterval time.Duration
}

// New creates an Engine. It does not contact the server.
func New(cfg Config) (*Engine, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: meilisearch URL is required", domain.ErrInvalidInput)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	var opts []ms.Option
	if cfg.APIKey != "" {
		opts = append(opts, ms.WithAPIKey(cfg.APIKey))
	}

	return &Engine{
		client:       ms.New(cfg.URL, opts...),
		pollInterval: cfg.PollInterval,
	}, nil
}

// Version returns the server's package version.
func (e *Engine) Version(ctx context.Context) (string, error) {
	version, err := e.client.VersionWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("get version: %w", err)
	}
	return version.PkgVersion, nil
}

// ListIndexes returns the UID of every index.
func (e *Engine) ListIndexes(ctx context.Context) ([]string, error) {
	var uids []string
	query := &ms.IndexesQuery{Limit: listPageSize}

	for {
		page, err := e.client.ListIndexesWithContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("list indexes: %w", err)
		}
		for _, index := range page.Results {
			uids = append(uids, index.UID)
		}

		query.Offset += int64(len(page.Results))
		if len(page.Results) == 0 || query.Offset >= page.Total {
			break
		}
	}

	return uids, nil
}

// DeleteIndex deletes an index and waits for the deletion to complete.
func (e *Engine) DeleteIndex(ctx context.Context, uid string) error {
	task, err := e.client.DeleteIndexWithContext(ctx, uid)
	if err != nil {
		return fmt.Errorf("delete index %s: %w", uid, err)
	}
	return e.wait(ctx, task, "delete index "+uid)
}

// CreateIndex creates an index and waits for it to exist.
func (e *Engine) CreateIndex(ctx context.Context, uid, primaryKey string) error {
	task, err := e.client.CreateIndexWithContext(ctx, &ms.IndexConfig{
		Uid:        uid,
		PrimaryKey: primaryKey,
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", uid, err)
	}
	return e.wait(ctx, task, "create index "+uid)
}

// ConfigureIndex applies the schema's settings one by one, waiting for
// each to be applied.
func (e *Engine) ConfigureIndex(ctx context.Context, schema domain.IndexSchema) error {
	index := e.client.Index(schema.UID)

	steps := []struct {
		name  string
		apply func() (*ms.TaskInfo, error)
	}{
		{"pagination", func() (*ms.TaskInfo, error) {
			return index.UpdatePaginationWithContext(ctx, &ms.Pagination{MaxTotalHits: schema.MaxTotalHits})
		}},
		{"filterable attributes", func() (*ms.TaskInfo, error) {
			return index.UpdateFilterableAttributesWithContext(ctx, &schema.Filterable)
		}},
		{"sortable attributes", func() (*ms.TaskInfo, error) {
			return index.UpdateSortableAttributesWithContext(ctx, &schema.Sortable)
		}},
		{"searchable attributes", func() (*ms.TaskInfo, error) {
			return index.UpdateSearchableAttributesWithContext(ctx, &schema.Searchable)
		}},
		{"distinct attribute", func() (*ms.TaskInfo, error) {
			return index.UpdateDistinctAttributeWithContext(ctx, schema.Distinct)
		}},
	}

	for _, step := range steps {
		logger.Debug("Updating %s of index %s", step.name, schema.UID)
		task, err := step.apply()
		if err != nil {
			return fmt.Errorf("update %s: %w", step.name, err)
		}
		if err := e.wait(ctx, task, "update "+step.name); err != nil {
			return err
		}
	}
	return nil
}

// AddDocuments adds documents to an index and waits until they are indexed.
func (e *Engine) AddDocuments(ctx context.Context, uid string, docs []domain.SearchDocument) error {
	if docs == nil {
		docs = []domain.SearchDocument{}
	}
	task, err := e.client.Index(uid).AddDocumentsWithContext(ctx, docs)
	if err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return e.wait(ctx, task, "add documents")
}

// wait blocks until the task finishes and reports unsuccessful outcomes.
func (e *Engine) wait(ctx context.Context, info *ms.TaskInfo, what string) error {
	task, err := e.client.WaitForTaskWithContext(ctx, info.TaskUID, e.pollInterval)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", what, err)
	}
	if task.Status != ms.TaskStatusSucceeded {
		return &TaskFailedError{
			TaskUID: info.TaskUID,
			Action:  what,
			Status:  string(task.Status),
			Detail:  fmt.Sprintf("%v", task.Error),
		}
	}
	return nil
}
