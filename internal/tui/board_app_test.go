package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

// testFeed swaps its snapshot between polls.
type testFeed struct {
	snap *snapshot.Snapshot
}

func (f *testFeed) load() *snapshot.Snapshot {
	return f.snap
}

func makeSnap(stages ...snapshot.Stage) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{Stages: make(map[string]snapshot.Stage)}
	for _, st := range stages {
		snap.Stages[st.ID] = st
		snap.Order = append(snap.Order, st.ID)
	}
	return snap
}

func newTestApp(feed *testFeed, done *board.Signal) *BoardApp {
	rec := board.NewReconciler(feed.load, nil, done)
	rec.Seed([]snapshot.StageDefinition{
		{ID: "alpha", Title: "Alpha"},
		{ID: "beta", Title: "Beta"},
	})
	return NewBoardApp(rec, 10*time.Millisecond, 10*time.Millisecond, nil)
}

func TestBoardAppTickPolls(t *testing.T) {
	feed := &testFeed{snap: makeSnap(
		snapshot.Stage{ID: "alpha", Title: "Alpha", Status: "running"},
		snapshot.Stage{ID: "beta", Title: "Beta", Status: "pending"},
	)}
	app := newTestApp(feed, board.NewSignal())

	model, cmd := app.Update(tickMsg(time.Now()))
	app = model.(*BoardApp)

	if app.Status() != board.StatusTracking {
		t.Errorf("Status() = %q, want %q", app.Status(), board.StatusTracking)
	}
	if app.stages.StageCount() != 2 {
		t.Errorf("StageCount() = %d, want 2", app.stages.StageCount())
	}
	if cmd == nil {
		t.Error("tick returned nil cmd, want rescheduled tick")
	}
}

func TestBoardAppWaitsWithoutFeed(t *testing.T) {
	app := newTestApp(&testFeed{}, board.NewSignal())

	model, _ := app.Update(tickMsg(time.Now()))
	app = model.(*BoardApp)

	if app.Status() != board.StatusWaitingFeed {
		t.Errorf("Status() = %q, want %q", app.Status(), board.StatusWaitingFeed)
	}
	if app.Completed() {
		t.Error("Completed() = true with no feed, want false")
	}
}

func TestBoardAppCompletionSchedulesClose(t *testing.T) {
	feed := &testFeed{snap: makeSnap(
		snapshot.Stage{ID: "alpha", Title: "Alpha", Status: "completed"},
		snapshot.Stage{ID: "beta", Title: "Beta", Status: "completed"},
	)}
	done := board.NewSignal()
	done.Set()
	app := newTestApp(feed, done)

	model, cmd := app.Update(tickMsg(time.Now()))
	app = model.(*BoardApp)

	if !app.Completed() {
		t.Fatal("Completed() = false after worker-done poll, want true")
	}
	if app.Status() != board.StatusFinished {
		t.Errorf("Status() = %q, want %q", app.Status(), board.StatusFinished)
	}
	if cmd == nil {
		t.Fatal("completing tick returned nil cmd, want close timer")
	}

	// The close timer delivers closeMsg; the app then quits.
	model, cmd = app.Update(closeMsg{})
	app = model.(*BoardApp)
	if cmd == nil {
		t.Fatal("closeMsg returned nil cmd, want tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("closeMsg cmd did not produce tea.QuitMsg")
	}
	if app.View() != "" {
		t.Error("View() after quit != \"\", want empty")
	}
}

func TestBoardAppQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		app := newTestApp(&testFeed{}, board.NewSignal())

		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}

		_, cmd := app.Update(msg)
		if cmd == nil {
			t.Errorf("key %q returned nil cmd, want tea.Quit", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q cmd did not produce tea.QuitMsg", key)
		}
	}
}

func TestBoardAppTabSwitchesFocus(t *testing.T) {
	app := newTestApp(&testFeed{}, board.NewSignal())

	if app.focusedPanel != PanelStages {
		t.Fatalf("initial focus = %d, want PanelStages", app.focusedPanel)
	}

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(*BoardApp)
	if app.focusedPanel != PanelRepos {
		t.Errorf("focus after tab = %d, want PanelRepos", app.focusedPanel)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(*BoardApp)
	if app.focusedPanel != PanelStages {
		t.Errorf("focus after second tab = %d, want PanelStages", app.focusedPanel)
	}
}

func TestBoardAppStageSelection(t *testing.T) {
	feed := &testFeed{snap: makeSnap(
		snapshot.Stage{ID: "alpha", Title: "Alpha", Status: "running"},
		snapshot.Stage{ID: "beta", Title: "Beta", Status: "pending"},
	)}
	app := newTestApp(feed, board.NewSignal())
	app.Update(tickMsg(time.Now()))

	if got := app.stages.SelectedStageID(); got != "alpha" {
		t.Fatalf("initial selection = %q, want \"alpha\"", got)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := app.stages.SelectedStageID(); got != "beta" {
		t.Errorf("selection after down = %q, want \"beta\"", got)
	}

	// Moving past the end stays put.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := app.stages.SelectedStageID(); got != "beta" {
		t.Errorf("selection after extra down = %q, want \"beta\"", got)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := app.stages.SelectedStageID(); got != "alpha" {
		t.Errorf("selection after up = %q, want \"alpha\"", got)
	}
}

func TestBoardAppViewShowsStages(t *testing.T) {
	feed := &testFeed{snap: makeSnap(
		snapshot.Stage{ID: "alpha", Title: "Alpha", Status: "completed"},
		snapshot.Stage{ID: "beta", Title: "Beta", Status: "running", Messages: []string{"building"}},
	)}
	app := newTestApp(feed, board.NewSignal())
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app.Update(tickMsg(time.Now()))

	view := app.View()
	for _, want := range []string{"Alpha", "Beta", "1/2 terminal", "building", board.StatusTracking} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestStagesPanelStatusIcons(t *testing.T) {
	panel := NewStagesPanel()
	tests := []struct {
		status string
		icon   string
	}{
		{"pending", iconPending},
		{"running", iconRunning},
		{"completed", iconDone},
		{"attention", iconFailed},
		{"blocked", iconWaiting},
		{"mystery", iconWaiting},
	}
	for _, tt := range tests {
		if got := panel.statusIcon(tt.status); !strings.Contains(got, tt.icon) {
			t.Errorf("statusIcon(%q) = %q, want containing %q", tt.status, got, tt.icon)
		}
	}
}

func TestFooterCompleted(t *testing.T) {
	footer := NewFooter()
	if strings.Contains(footer.View(), "run complete") {
		t.Error("fresh footer shows completion")
	}
	footer.SetCompleted(true)
	if !strings.Contains(footer.View(), "run complete") {
		t.Error("completed footer missing \"run complete\"")
	}
}
