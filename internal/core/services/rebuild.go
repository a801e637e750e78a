package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
	"github.com/accords-library/search-sync/internal/core/ports/driving"
	"github.com/accords-library/search-sync/internal/logger"
)

// DefaultDeleteConcurrency caps how many index deletions run at once.
const DefaultDeleteConcurrency = 16

// Ensure Rebuilder implements the interface.
var _ driving.Rebuilder = (*Rebuilder)(nil)

// Rebuilder runs full destructive rebuilds of the search index.
type Rebuilder struct {
	search    driven.SearchEngine
	content   driven.ContentBackend
	formatter driven.TextFormatter
	runs      driven.RebuildRunStore

	schema            domain.IndexSchema
	batchSize         int
	deleteConcurrency int
	now               func() time.Time

	// Status tracking
	mu     sync.RWMutex
	status driving.RebuildStatus
}

// RebuilderOption configures a Rebuilder.
type RebuilderOption func(*Rebuilder)

// WithSchema overrides the index schema. Default is domain.DefaultIndexSchema().
func WithSchema(schema domain.IndexSchema) RebuilderOption {
	return func(r *Rebuilder) {
		r.schema = schema
	}
}

// WithBatchSize splits the final submission into chunks of n documents.
// Default is 0: one bulk call.
func WithBatchSize(n int) RebuilderOption {
	return func(r *Rebuilder) {
		r.batchSize = n
	}
}

// WithDeleteConcurrency sets how many index deletions may run at once.
// Default is DefaultDeleteConcurrency, with a minimum of 1.
func WithDeleteConcurrency(n int) RebuilderOption {
	return func(r *Rebuilder) {
		if n < 1 {
			n = 1
		}
		r.deleteConcurrency = n
	}
}

// WithRunStore records every run in store.
func WithRunStore(store driven.RebuildRunStore) RebuilderOption {
	return func(r *Rebuilder) {
		r.runs = store
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) RebuilderOption {
	return func(r *Rebuilder) {
		r.now = now
	}
}

// NewRebuilder creates a Rebuilder over its collaborators.
func NewRebuilder(
	search driven.SearchEngine,
	content driven.ContentBackend,
	formatter driven.TextFormatter,
	opts ...RebuilderOption,
) *Rebuilder {
	r := &Rebuilder{
		search:            search,
		content:           content,
		formatter:         formatter,
		schema:            domain.DefaultIndexSchema(),
		deleteConcurrency: DefaultDeleteConcurrency,
		now:               time.Now,
		status:            driving.RebuildStatus{Phase: domain.PhaseIdle},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rebuild wipes every index of the search engine, recreates the target
// index and fills it from the content backend.
// Nothing is retried: the first failure aborts the run and leaves the
// engine in whatever state the last completed step produced.
func (r *Rebuilder) Rebuild(ctx context.Context, trigger domain.RebuildTrigger) (*domain.RebuildRun, error) {
	run, ok := r.claim(trigger)
	if !ok {
		return nil, domain.ErrRebuildInProgress
	}
	return r.execute(ctx, run)
}

// Start claims the single-flight slot and runs the rebuild in a goroutine.
func (r *Rebuilder) Start(ctx context.Context, trigger domain.RebuildTrigger) (<-chan driving.RebuildResult, error) {
	run, ok := r.claim(trigger)
	if !ok {
		return nil, domain.ErrRebuildInProgress
	}
	done := make(chan driving.RebuildResult, 1)
	go func() {
		defer close(done)
		result, err := r.execute(ctx, run)
		done <- driving.RebuildResult{Run: result, Err: err}
	}()
	return done, nil
}

// claim creates the run record and marks it running.
func (r *Rebuilder) claim(trigger domain.RebuildTrigger) (domain.RebuildRun, bool) {
	run := domain.RebuildRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    domain.RunStatusRunning,
		StartedAt: r.now(),
	}
	return run, r.begin(run.ID)
}

// execute runs a claimed rebuild and releases the slot when done.
func (r *Rebuilder) execute(ctx context.Context, run domain.RebuildRun) (*domain.RebuildRun, error) {
	defer r.finish()

	logger.Section("Rebuild " + run.ID)
	logger.Info("Starting %s rebuild %s", trigger, run.ID)
	r.record(ctx, run)

	deleted, documents, err := r.rebuild(ctx)
	run.FinishedAt = r.now()
	run.DeletedIndexes = deleted
	run.Documents = documents

	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		r.record(ctx, run)
		logger.Error("Rebuild %s failed: %v", run.ID, err)
		return &run, err
	}

	run.Status = domain.RunStatusSucceeded
	r.record(ctx, run)
	logger.Info("Rebuild complete: %d documents in %s", documents, run.Duration().Round(time.Millisecond))
	return &run, nil
}

// rebuild executes the rebuild steps in order.
func (r *Rebuilder) rebuild(ctx context.Context) (int, int, error) {
	// 1. Verify connectivity
	r.setPhase(domain.PhaseConnect)
	version, err := r.search.Version(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: read search engine version: %w", domain.ErrConnectivity, err)
	}
	logger.Info("Success connecting to Meilisearch, version %s", version)

	// 2. Wipe every index, whatever its name
	r.setPhase(domain.PhaseWipe)
	deleted, err := r.deleteAllIndexes(ctx)
	if err != nil {
		return deleted, 0, err
	}

	// 3. Create the target index
	r.setPhase(domain.PhaseCreate)
	if err := r.search.CreateIndex(ctx, r.schema.UID, r.schema.PrimaryKey); err != nil {
		return deleted, 0, fmt.Errorf("%w: create index %q: %w", domain.ErrSchemaConfiguration, r.schema.UID, err)
	}

	// 4. Configure its schema
	r.setPhase(domain.PhaseConfigure)
	if err := r.search.ConfigureIndex(ctx, r.schema); err != nil {
		return deleted, 0, fmt.Errorf("%w: configure index %q: %w", domain.ErrSchemaConfiguration, r.schema.UID, err)
	}

	// 5. Fetch and transform every content item
	acc, err := r.buildDocuments(ctx)
	if err != nil {
		return deleted, 0, err
	}

	// 6. Submit
	r.setPhase(domain.PhaseSubmit)
	if err := acc.submit(ctx, r.search, r.schema.UID, r.batchSize); err != nil {
		return deleted, 0, fmt.Errorf("%w: %w", domain.ErrBulkSubmit, err)
	}
	r.setPhase(domain.PhaseDone)

	return deleted, acc.count(), nil
}

// deleteAllIndexes deletes every index concurrently and waits for all
// deletions. It returns how many succeeded.
func (r *Rebuilder) deleteAllIndexes(ctx context.Context) (int, error) {
	uids, err := r.search.ListIndexes(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list indexes: %w", domain.ErrConnectivity, err)
	}
	if len(uids) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(min(len(uids), r.deleteConcurrency))
	if err != nil {
		return 0, fmt.Errorf("create deletion pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = make(map[string]error)
	)
	fail := func(uid string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failures[uid] = err
	}

	for _, uid := range uids {
		logger.Info("Deleting index %s", uid)
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := r.search.DeleteIndex(ctx, uid); err != nil {
				fail(uid, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(uid, submitErr)
		}
	}
	wg.Wait()

	if len(failures) > 0 {
		return len(uids) - len(failures), &domain.IndexDeletionError{Failures: failures}
	}
	return len(uids), nil
}

// buildDocuments fetches the inventory and transforms every content item.
// It reports progress into the status, so only Rebuild may call it.
func (r *Rebuilder) buildDocuments(ctx context.Context) (*documentAccumulator, error) {
	r.setPhase(domain.PhaseInventory)
	ids, err := r.content.GetAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch content inventory: %w", domain.ErrConnectivity, err)
	}

	policies := categoryPolicies(r.content, r.formatter)
	total := 0
	for _, policy := range policies {
		total += len(policy.ids(ids))
	}
	r.setTotal(total)
	logger.Debug("Inventory holds %d items", total)

	r.setPhase(domain.PhaseTransform)
	acc := newDocumentAccumulator()
	for _, policy := range policies {
		r.setCategory(policy.category)
		before := acc.count()

		for _, id := range policy.ids(ids) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			units, err := policy.load(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("transform %s %q: %w", policy.category, id, err)
			}
			for _, unit := range units {
				if err := acc.add(policy.expand(unit)...); err != nil {
					return nil, fmt.Errorf("transform %s %q: %w", policy.category, id, err)
				}
			}
			r.advance(acc.count())
		}

		logger.Debug("%s: %d documents", policy.category, acc.count()-before)
	}

	return acc, nil
}

// Status returns the progress of the current or last rebuild.
func (r *Rebuilder) Status(_ context.Context) (*driving.RebuildStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to avoid race conditions
	status := r.status
	return &status, nil
}

// History returns the most recent recorded runs.
// Without a run store there is no history.
func (r *Rebuilder) History(ctx context.Context, limit int) ([]domain.RebuildRun, error) {
	if r.runs == nil {
		return nil, nil
	}
	runs, err := r.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// record saves a run. The audit trail never fails a rebuild.
func (r *Rebuilder) record(ctx context.Context, run domain.RebuildRun) {
	if r.runs == nil {
		return
	}
	if err := r.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record rebuild %s: %v", run.ID, err)
	}
}

// begin marks a rebuild as running. It returns false if one already is.
func (r *Rebuilder) begin(runID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Running {
		return false
	}
	r.status = driving.RebuildStatus{Running: true, RunID: runID, Phase: domain.PhaseConnect}
	return true
}

func (r *Rebuilder) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = false
}

func (r *Rebuilder) setPhase(phase domain.RebuildPhase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Phase = phase
}

func (r *Rebuilder) setCategory(category domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Category = category
}

func (r *Rebuilder) setTotal(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.ItemsTotal = total
	r.status.ItemsProcessed = 0
	r.status.Documents = 0
}

func (r *Rebuilder) advance(documents int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.ItemsProcessed++
	r.status.Documents = documents
}
