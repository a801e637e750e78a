package cli

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accords-library/search-sync/internal/adapters/driving/tui"
	"github.com/accords-library/search-sync/internal/adapters/driving/tui/messages"
	"github.com/accords-library/search-sync/internal/config"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/logger"
)

func TestRebuildCmd_Use(t *testing.T) {
	assert.Equal(t, "rebuild", rebuildCmd.Use)
	assert.Equal(t, "Wipe every index and rebuild the search index", rebuildCmd.Short)
}

func TestRebuildCmd_PlainProgress(t *testing.T) {
	env := setupTest(t)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env.rebuilder.run = &domain.RebuildRun{
		ID:             "run-42",
		Status:         domain.RunStatusSucceeded,
		StartedAt:      start,
		FinishedAt:     start.Add(1500 * time.Millisecond),
		Documents:      12,
		DeletedIndexes: 2,
	}

	out, _, err := execute(t, "rebuild")

	require.NoError(t, err)
	assert.Contains(t, out, "Rebuilding search index...")
	assert.Contains(t, out, "Search index rebuilt: 12 documents, 2 indexes deleted, 1.5s (run run-42).")
	assert.Equal(t, []domain.RebuildTrigger{domain.TriggerManual}, env.rebuilder.calls())
	assert.True(t, env.closed)
}

func TestRebuildCmd_Failure(t *testing.T) {
	env := setupTest(t)
	env.rebuilder.err = domain.ErrBulkSubmit

	_, _, err := execute(t, "rebuild")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBulkSubmit)
	assert.Contains(t, err.Error(), "rebuild failed")
	assert.True(t, env.closed)
}

func TestRebuildCmd_BatchSizeOverride(t *testing.T) {
	env := setupTest(t)

	_, _, err := execute(t, "rebuild", "--batch-size", "50")

	require.NoError(t, err)
	require.NotNil(t, env.opts.Overrides.BatchSize)
	assert.Equal(t, 50, *env.opts.Overrides.BatchSize)
}

func TestRebuildCmd_NoBatchSizeFlag(t *testing.T) {
	env := setupTest(t)

	_, _, err := execute(t, "rebuild")

	require.NoError(t, err)
	assert.Nil(t, env.opts.Overrides.BatchSize)
}

func TestRebuildCmd_ConfigError(t *testing.T) {
	setupTest(t)
	loadConfig = func(_ config.Options) (*config.Config, error) {
		return nil, domain.ErrInvalidInput
	}

	_, _, err := execute(t, "rebuild")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRebuildCmd_TUI(t *testing.T) {
	env := setupTest(t)
	env.terminal = true
	env.rebuilder.run = &domain.RebuildRun{ID: "run-7", Documents: 3}
	env.program = func(m tea.Model, _ io.Writer) error {
		app, ok := m.(*tui.App)
		require.True(t, ok)
		logger.Info("held back")
		app.Update(messages.RebuildFinished{Run: env.rebuilder.run})
		return nil
	}

	out, errOut, err := execute(t, "rebuild")

	require.NoError(t, err)
	assert.Contains(t, out, "Search index rebuilt: 3 documents")
	assert.Contains(t, errOut, "held back")
}

func TestRebuildCmd_TUIFailure(t *testing.T) {
	env := setupTest(t)
	env.terminal = true
	env.program = func(m tea.Model, _ io.Writer) error {
		m.(*tui.App).Update(messages.RebuildFinished{Err: domain.ErrConnectivity})
		return nil
	}

	_, _, err := execute(t, "rebuild")

	assert.ErrorIs(t, err, domain.ErrConnectivity)
}

func TestRebuildCmd_TUIProgramError(t *testing.T) {
	env := setupTest(t)
	env.terminal = true
	env.program = func(tea.Model, io.Writer) error { return errors.New("no tty") }

	_, _, err := execute(t, "rebuild")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error")
}

func TestRebuildCmd_NoTUIFlag(t *testing.T) {
	env := setupTest(t)
	env.terminal = true
	env.program = func(tea.Model, io.Writer) error {
		t.Fatal("progress view must not start with --no-tui")
		return nil
	}

	out, _, err := execute(t, "rebuild", "--no-tui")

	require.NoError(t, err)
	assert.Contains(t, out, "Rebuilding search index...")
}
