// Package app wires the adapters and services of search-sync together.
package app

import (
	"fmt"

	"github.com/accords-library/search-sync/internal/adapters/driven/search/meilisearch"
	"github.com/accords-library/search-sync/internal/adapters/driven/storage/memory"
	"github.com/accords-library/search-sync/internal/adapters/driven/storage/sqlite"
	"github.com/accords-library/search-sync/internal/config"
	"github.com/accords-library/search-sync/internal/connectors/payload"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
	"github.com/accords-library/search-sync/internal/core/services"
	"github.com/accords-library/search-sync/internal/logger"
	"github.com/accords-library/search-sync/internal/normalisers/lexical"
)

// App holds the wired rebuild service and the resources it owns.
type App struct {
	Config    *config.Config
	Rebuilder *services.Rebuilder

	store *sqlite.Store
}

// New builds an App from validated settings.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", domain.ErrInvalidInput)
	}
	logger.SetVerbose(cfg.Verbose)

	engine, err := meilisearch.New(meilisearch.Config{
		URL:          cfg.Meili.URL,
		APIKey:       cfg.Meili.MasterKey,
		PollInterval: cfg.Meili.PollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("create search engine client: %w", err)
	}

	content, err := payload.NewClient(payload.Config{
		BaseURL:  cfg.Payload.APIURL,
		Email:    cfg.Payload.User,
		Password: cfg.Payload.Password,
		Timeout:  cfg.Payload.Timeout,
		RateLimit: payload.RateLimitConfig{
			RequestsPerSecond: cfg.Payload.RequestsPerSecond,
			Burst:             cfg.Payload.Burst,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create content client: %w", err)
	}

	a := &App{Config: cfg}

	var runs driven.RebuildRunStore
	if cfg.History.Enabled {
		store, err := sqlite.NewStore(cfg.History.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		a.store = store
		runs = store.RebuildRunStore()
		logger.Debug("Run history at %s", store.Path())
	} else {
		runs = memory.NewRebuildRunStore()
	}

	schema := domain.DefaultIndexSchema()
	schema.UID = cfg.Rebuild.IndexUID

	a.Rebuilder = services.NewRebuilder(engine, content, lexical.New(),
		services.WithSchema(schema),
		services.WithBatchSize(cfg.Rebuild.BatchSize),
		services.WithDeleteConcurrency(cfg.Rebuild.DeleteConcurrency),
		services.WithRunStore(runs),
	)
	return a, nil
}

// Close releases the run history database.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

// OpenHistory opens the run store alone, for commands that only read it.
func OpenHistory(cfg *config.Config) (driven.RebuildRunStore, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("%w: nil config", domain.ErrInvalidInput)
	}
	if !cfg.History.Enabled {
		return nil, nil, fmt.Errorf("%w: run history is disabled (history.enabled = false)", domain.ErrInvalidInput)
	}
	store, err := sqlite.NewStore(cfg.History.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open run history: %w", err)
	}
	return store.RebuildRunStore(), store.Close, nil
}
