package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Footer renders the status summary and keyboard hints.
type Footer struct {
	width     int
	completed bool

	hintStyle lipgloss.Style
	doneStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),
	}
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetCompleted marks the run as complete.
func (f *Footer) SetCompleted(completed bool) {
	f.completed = completed
}

// View renders the footer.
func (f *Footer) View() string {
	hints := "↑/↓: select stage • tab: switch panel • q: quit"
	if f.completed {
		return fmt.Sprintf("%s  %s", f.doneStyle.Render("✓ run complete"), f.hintStyle.Render(hints))
	}
	return f.hintStyle.Render(hints)
}
