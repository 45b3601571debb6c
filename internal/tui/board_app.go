// Package tui renders the live progress board. It is thin glue over the
// reconciliation engine in internal/board: bubbletea ticks drive polls, and
// the panels display whatever the reconciler reports.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
)

// Panel indices.
const (
	PanelStages = 0
	PanelRepos  = 1
)

// tickMsg fires on the fixed poll cadence.
type tickMsg time.Time

// hintMsg fires when the feed watcher reports a snapshot change.
type hintMsg struct{}

// closeMsg fires after the post-completion grace delay.
type closeMsg struct{}

// BoardApp is the bubbletea model for the progress board.
type BoardApp struct {
	rec        *board.Reconciler
	interval   time.Duration
	closeDelay time.Duration
	hints      <-chan struct{}

	stages *StagesPanel
	repos  *ReposPanel
	footer *Footer
	spin   spinner.Model

	status       string
	focusedPanel int
	width        int
	height       int
	observed     bool
	completed    bool
	quitting     bool
}

// NewBoardApp creates a board model around a reconciler. hints may be nil.
func NewBoardApp(rec *board.Reconciler, interval, closeDelay time.Duration, hints <-chan struct{}) *BoardApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	app := &BoardApp{
		rec:        rec,
		interval:   interval,
		closeDelay: closeDelay,
		hints:      hints,
		stages:     NewStagesPanel(),
		repos:      NewReposPanel(),
		footer:     NewFooter(),
		spin:       sp,
		status:     board.StatusInitializing,
		width:      80,
		height:     24,
	}
	app.stages.SetFocused(true)
	return app
}

// Init implements tea.Model.
func (a *BoardApp) Init() tea.Cmd {
	cmds := []tea.Cmd{a.tickCmd(), a.spin.Tick}
	if a.hints != nil {
		cmds = append(cmds, a.waitHintCmd())
	}
	return tea.Batch(cmds...)
}

// tickCmd schedules the next cadence poll.
func (a *BoardApp) tickCmd() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitHintCmd blocks on the next feed change hint.
func (a *BoardApp) waitHintCmd() tea.Cmd {
	hints := a.hints
	return func() tea.Msg {
		if _, ok := <-hints; !ok {
			return nil
		}
		return hintMsg{}
	}
}

// Update implements tea.Model.
func (a *BoardApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updatePanelSizes()

	case tickMsg:
		cmd := a.poll()
		if a.completed || a.quitting {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.tickCmd())

	case hintMsg:
		// Immediate extra poll; the cadence tick stays scheduled.
		cmd := a.poll()
		if a.completed || a.quitting {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.waitHintCmd())

	case closeMsg:
		a.quitting = true
		return a, tea.Quit

	case spinner.TickMsg:
		if !a.observed && !a.completed {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

// handleKey processes keyboard input.
func (a *BoardApp) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return a, tea.Quit

	case "tab", "shift+tab", "left", "right", "h", "l":
		if a.focusedPanel == PanelStages {
			a.focusedPanel = PanelRepos
		} else {
			a.focusedPanel = PanelStages
		}
		a.stages.SetFocused(a.focusedPanel == PanelStages)
		a.repos.SetFocused(a.focusedPanel == PanelRepos)

	case "up", "k":
		if a.focusedPanel == PanelStages {
			a.stages.MoveUp()
			a.refreshRepoRows()
		} else {
			a.repos.MoveUp()
		}

	case "down", "j":
		if a.focusedPanel == PanelStages {
			a.stages.MoveDown()
			a.refreshRepoRows()
		} else {
			a.repos.MoveDown()
		}
	}
	return a, nil
}

// poll runs one reconciler tick and applies the outcome. On the completing
// tick it schedules the grace-delay shutdown.
func (a *BoardApp) poll() tea.Cmd {
	outcome := a.rec.Tick()
	a.status = outcome.Status
	if outcome.Observed {
		a.observed = true
	}
	a.stages.SetStages(outcome.Stages)
	a.refreshRepoRows()

	if outcome.Completed {
		a.completed = true
		a.footer.SetCompleted(true)
		return tea.Tick(a.closeDelay, func(time.Time) tea.Msg {
			return closeMsg{}
		})
	}
	return nil
}

// refreshRepoRows points the detail panel at the selected stage's entries.
func (a *BoardApp) refreshRepoRows() {
	a.repos.SetEntries(a.rec.RepoEntries(a.stages.SelectedStageID()))
}

// updatePanelSizes recalculates panel dimensions from the window size.
func (a *BoardApp) updatePanelSizes() {
	contentHeight := a.height - 3 // status line + footer
	if contentHeight < 6 {
		contentHeight = 6
	}
	stagesWidth := a.width / 3
	if stagesWidth < 24 {
		stagesWidth = 24
	}
	a.stages.SetSize(stagesWidth, contentHeight)
	a.repos.SetSize(a.width-stagesWidth, contentHeight)
	a.footer.SetWidth(a.width)
}

// View implements tea.Model.
func (a *BoardApp) View() string {
	if a.quitting {
		return ""
	}

	statusLine := a.status
	if !a.observed && !a.completed {
		statusLine = a.spin.View() + " " + statusLine
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Render(statusLine)

	content := lipgloss.JoinHorizontal(lipgloss.Top, a.stages.View(), a.repos.View())

	return header + "\n" + content + "\n" + a.footer.View()
}

// Completed reports whether the board observed run completion.
func (a *BoardApp) Completed() bool {
	return a.completed
}

// Status returns the current advisory status line.
func (a *BoardApp) Status() string {
	return a.status
}

// NewBoardProgram creates a bubbletea program for the board.
func NewBoardProgram(app *BoardApp, altScreen bool) *tea.Program {
	opts := []tea.ProgramOption{}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(app, opts...)
}
