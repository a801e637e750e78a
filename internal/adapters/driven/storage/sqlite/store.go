package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/accords-library/search-sync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "runs.db"

// Store is a SQLite-based storage that provides access to the metadata
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.search-sync/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".search-sync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RebuildRunStore returns a RebuildRunStore interface backed by this store.
func (s *Store) RebuildRunStore() driven.RebuildRunStore {
	return &rebuildRunStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Rebuild Run Store ====================

// rebuildRunStore implements driven.RebuildRunStore.
type rebuildRunStore struct {
	store *Store
}

var _ driven.RebuildRunStore = (*rebuildRunStore)(nil)

// Save stores or updates a run.
func (s *rebuildRunStore) Save(ctx context.Context, run domain.RebuildRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO rebuild_runs (id, run_trigger, status, started_at, finished_at, documents, deleted_indexes, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			finished_at = excluded.finished_at,
			documents = excluded.documents,
			deleted_indexes = excluded.deleted_indexes,
			error = excluded.error
	`,
		run.ID,
		string(run.Trigger),
		string(run.Status),
		formatTime(run.StartedAt),
		nullableTime(run.FinishedAt),
		run.Documents,
		run.DeletedIndexes,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("saving rebuild run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *rebuildRunStore) Get(ctx context.Context, id string) (*domain.RebuildRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, run_trigger, status, started_at, finished_at, documents, deleted_indexes, error
		FROM rebuild_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs, newest first.
func (s *rebuildRunStore) List(ctx context.Context, limit int) ([]domain.RebuildRun, error) {
	query := `
		SELECT id, run_trigger, status, started_at, finished_at, documents, deleted_indexes, error
		FROM rebuild_runs
		ORDER BY started_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rebuild runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RebuildRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rebuild runs: %w", err)
	}
	return runs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RebuildRun, error) {
	var (
		run        domain.RebuildRun
		trigger    string
		status     string
		startedAt  string
		finishedAt sql.NullString
	)
	err := row.Scan(&run.ID, &trigger, &status, &startedAt, &finishedAt,
		&run.Documents, &run.DeletedIndexes, &run.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning rebuild run: %w", err)
	}

	run.Trigger = domain.RebuildTrigger(trigger)
	run.Status = domain.RunStatus(status)
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		if run.FinishedAt, err = parseTime(finishedAt.String); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// Times are stored as fixed-width UTC text so that they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}
