package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/accords-library/search-sync/internal/adapters/driving/tui/components/status"
	"github.com/accords-library/search-sync/internal/adapters/driving/tui/keymap"
	"github.com/accords-library/search-sync/internal/adapters/driving/tui/messages"
	"github.com/accords-library/search-sync/internal/adapters/driving/tui/styles"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driving"
)

// PollInterval is how often the status is read while a rebuild runs.
const PollInterval = 100 * time.Millisecond

// step is one line of the progress checklist.
type step struct {
	phase domain.RebuildPhase
	label string
}

var steps = []step{
	{domain.PhaseConnect, "Connect to search engine"},
	{domain.PhaseWipe, "Delete every index"},
	{domain.PhaseCreate, "Create index"},
	{domain.PhaseConfigure, "Configure index settings"},
	{domain.PhaseInventory, "Fetch content inventory"},
	{domain.PhaseTransform, "Transform content"},
	{domain.PhaseSubmit, "Submit documents"},
}

func stepIndex(phase domain.RebuildPhase) int {
	if phase == domain.PhaseDone {
		return len(steps)
	}
	for i, s := range steps {
		if s.phase == phase {
			return i
		}
	}
	return -1
}

// App is the rebuild progress model following the Elm architecture.
// It starts the rebuild on Init and quits once it returns.
type App struct {
	ports   *Ports
	trigger domain.RebuildTrigger

	ctx    context.Context
	cancel context.CancelFunc

	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bar      *status.Bar
	spinner  spinner.Model
	progress progress.Model

	status driving.RebuildStatus

	// categoryStart is the document count when a category was first seen.
	categoryStart map[domain.Category]int
	categoryDocs  map[domain.Category]int

	showDetails bool
	started     time.Time
	now         func() time.Time

	run       *domain.RebuildRun
	err       error
	done      bool
	cancelled bool
	width     int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the progress model for one rebuild.
func NewApp(ports *Ports, trigger domain.RebuildTrigger) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		ports:         ports,
		trigger:       trigger,
		ctx:           ctx,
		cancel:        cancel,
		styles:        s,
		keymap:        km,
		bar:           status.NewBar(s, km),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Active)),
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		status:        driving.RebuildStatus{Phase: domain.PhaseIdle},
		categoryStart: make(map[domain.Category]int),
		categoryDocs:  make(map[domain.Category]int),
		now:           time.Now,
		width:         80,
	}, nil
}

// WithContext derives the rebuild context from ctx.
func (a *App) WithContext(ctx context.Context) *App {
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.started = a.now()
	return tea.Batch(
		tea.SetWindowTitle("search-sync - rebuild"),
		a.spinner.Tick,
		a.startRebuild(),
		a.schedulePoll(),
	)
}

func (a *App) startRebuild() tea.Cmd {
	rebuilder := a.ports.Rebuilder
	ctx := a.ctx
	trigger := a.trigger
	return func() tea.Msg {
		run, err := rebuilder.Rebuild(ctx, trigger)
		return messages.RebuildFinished{Run: run, Err: err}
	}
}

func (a *App) schedulePoll() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return messages.PollTick(t)
	})
}

func (a *App) pollStatus() tea.Cmd {
	rebuilder := a.ports.Rebuilder
	ctx := a.ctx
	return func() tea.Msg {
		st, err := rebuilder.Status(ctx)
		if err != nil || st == nil {
			return messages.StatusPolled{Err: err}
		}
		return messages.StatusPolled{Status: *st}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.bar.SetWidth(msg.Width)
		a.progress.Width = min(max(msg.Width-30, 10), 60)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.PollTick:
		if a.done {
			return a, nil
		}
		a.bar.SetElapsed(a.now().Sub(a.started))
		return a, a.pollStatus()

	case messages.StatusPolled:
		if a.done {
			return a, nil
		}
		if msg.Err == nil {
			a.applyStatus(msg.Status)
		}
		return a, a.schedulePoll()

	case messages.RebuildFinished:
		a.finish(msg)
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		if a.done {
			return a, tea.Quit
		}
		// The rebuild returns promptly once cancelled; RebuildFinished quits.
		a.cancelled = true
		a.cancel()
		return a, nil
	case key.Matches(msg, a.keymap.Help):
		a.bar.ToggleHelp()
	case key.Matches(msg, a.keymap.Details):
		a.showDetails = !a.showDetails
	}
	return a, nil
}

func (a *App) applyStatus(st driving.RebuildStatus) {
	a.status = st
	if st.RunID != "" {
		a.bar.SetRunID(st.RunID)
	}
	if st.Category == "" {
		return
	}
	if _, seen := a.categoryStart[st.Category]; !seen {
		a.categoryStart[st.Category] = st.Documents
	}
	a.categoryDocs[st.Category] = st.Documents - a.categoryStart[st.Category]
}

func (a *App) finish(msg messages.RebuildFinished) {
	a.done = true
	if st, err := a.ports.Rebuilder.Status(context.Background()); err == nil && st != nil {
		a.applyStatus(*st)
	}
	a.run = msg.Run
	a.err = msg.Err
	a.bar.SetElapsed(a.now().Sub(a.started))
	if msg.Run != nil {
		a.bar.SetRunID(msg.Run.ID)
	}

	switch {
	case msg.Err == nil:
		a.status.Phase = domain.PhaseDone
		a.bar.SetState(status.StateSucceeded)
	case errors.Is(msg.Err, context.Canceled) || a.cancelled:
		a.cancelled = true
		a.bar.SetState(status.StateCancelled)
	default:
		a.bar.SetState(status.StateFailed)
	}
	a.cancel()
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Rebuilding search index"))
	b.WriteString("\n\n")

	current := stepIndex(a.status.Phase)
	for i, s := range steps {
		b.WriteString(a.renderStep(i, current, s))
		b.WriteString("\n")
	}

	if a.status.ItemsTotal > 0 {
		b.WriteString("\n")
		b.WriteString(a.progress.ViewAs(a.status.Fraction()))
		fmt.Fprintf(&b, "  %d/%d items · %d documents",
			a.status.ItemsProcessed, a.status.ItemsTotal, a.status.Documents)
		if a.status.Category != "" && !a.done {
			b.WriteString(a.styles.Muted.Render(" · " + a.status.Category.String()))
		}
		b.WriteString("\n")
	}

	if a.showDetails {
		b.WriteString("\n")
		b.WriteString(a.renderDetails())
	}

	if a.done {
		b.WriteString("\n")
		b.WriteString(a.renderOutcome())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.bar.View())
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderStep(i, current int, s step) string {
	switch {
	case a.done && a.err != nil && i == current:
		return a.styles.Error.Render("✗ " + s.label)
	case i < current:
		return a.styles.Success.Render("✓ " + s.label)
	case i == current && !a.done:
		return a.spinner.View() + " " + a.styles.Active.Render(s.label)
	default:
		return a.styles.Muted.Render("  " + s.label)
	}
}

func (a *App) renderDetails() string {
	var b strings.Builder
	for _, c := range domain.AllCategories() {
		n, seen := a.categoryDocs[c]
		if !seen {
			b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  %-18s -", c)))
		} else {
			b.WriteString(a.styles.Normal.Render(fmt.Sprintf("  %-18s %d", c, n)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderOutcome() string {
	switch {
	case a.err == nil && a.run != nil:
		return a.styles.Success.Render(fmt.Sprintf(
			"Indexed %d documents after deleting %d indexes.", a.run.Documents, a.run.DeletedIndexes))
	case a.cancelled:
		return a.styles.Warning.Render("Rebuild cancelled.")
	case a.err != nil:
		return a.styles.Error.Render("Rebuild failed: " + a.err.Error())
	}
	return ""
}

// Run returns the finished run, nil before the rebuild returns.
func (a *App) Run() *domain.RebuildRun {
	return a.run
}

// Err returns the rebuild error.
func (a *App) Err() error {
	return a.err
}

// Done reports whether the rebuild has returned.
func (a *App) Done() bool {
	return a.done
}

// Cancelled reports whether the user interrupted the rebuild.
func (a *App) Cancelled() bool {
	return a.cancelled
}
