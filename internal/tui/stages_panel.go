package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
)

// Stage status icons.
const (
	iconPending = "[○]"
	iconRunning = "[●]"
	iconDone    = "[✓]"
	iconFailed  = "[✗]"
	iconWaiting = "[◐]"
)

// StagesPanel displays the ordered stage checklist with status indicators.
type StagesPanel struct {
	stages       []board.StageView
	selected     int
	scrollOffset int
	width        int
	height       int
	focused      bool

	// Styles
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	pendingStyle  lipgloss.Style
	runningStyle  lipgloss.Style
	doneStyle     lipgloss.Style
	failedStyle   lipgloss.Style
	blockedStyle  lipgloss.Style
	messageStyle  lipgloss.Style
}

// NewStagesPanel creates a new StagesPanel instance.
func NewStagesPanel() *StagesPanel {
	return &StagesPanel{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		selectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Bold(true),

		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		pendingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray

		runningStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")), // Dark green

		failedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		blockedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		messageStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// SetStages replaces the displayed stage views.
func (p *StagesPanel) SetStages(stages []board.StageView) {
	p.stages = stages
	if p.selected >= len(p.stages) {
		p.selected = len(p.stages) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// SetSize updates the panel dimensions.
func (p *StagesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this panel has keyboard focus.
func (p *StagesPanel) SetFocused(focused bool) {
	p.focused = focused
}

// MoveUp moves the selection up one stage.
func (p *StagesPanel) MoveUp() {
	if p.selected > 0 {
		p.selected--
		p.ensureVisible()
	}
}

// MoveDown moves the selection down one stage.
func (p *StagesPanel) MoveDown() {
	if p.selected < len(p.stages)-1 {
		p.selected++
		p.ensureVisible()
	}
}

// SelectedStageID returns the id of the selected stage, or "".
func (p *StagesPanel) SelectedStageID() string {
	if p.selected < 0 || p.selected >= len(p.stages) {
		return ""
	}
	return p.stages[p.selected].ID
}

// ensureVisible adjusts scroll offset to keep the selection on screen.
func (p *StagesPanel) ensureVisible() {
	visibleRows := p.height - 4
	if visibleRows < 1 {
		visibleRows = 1
	}
	if p.selected < p.scrollOffset {
		p.scrollOffset = p.selected
	} else if p.selected >= p.scrollOffset+visibleRows {
		p.scrollOffset = p.selected - visibleRows + 1
	}
}

// View renders the stage checklist.
func (p *StagesPanel) View() string {
	var b strings.Builder

	title := "Stages"
	if p.focused {
		title = "[Stages]"
	}
	b.WriteString(p.titleStyle.Render(title))
	b.WriteString("\n")

	if len(p.stages) == 0 {
		b.WriteString(p.normalStyle.Render("  No stages reported"))
	} else {
		done := 0
		for _, stage := range p.stages {
			if stage.Terminal {
				done++
			}
		}
		b.WriteString(p.messageStyle.Render(fmt.Sprintf(" %d/%d terminal", done, len(p.stages))))
		b.WriteString("\n")

		for i, stage := range p.stages {
			b.WriteString(p.renderStageLine(stage, i == p.selected))
			if i < len(p.stages)-1 {
				b.WriteString("\n")
			}
		}
	}

	borderColor := lipgloss.Color("240")
	if p.focused {
		borderColor = lipgloss.Color("63")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(p.width - 2).
		Height(p.height - 2).
		Render(b.String())
}

// renderStageLine renders one checklist row: icon, title, status, and the
// most recent message if any.
func (p *StagesPanel) renderStageLine(stage board.StageView, selected bool) string {
	icon := p.statusIcon(stage.Status)

	suffix := ""
	if stage.LastMessage != "" {
		suffix = fmt.Sprintf(" (%s)", stage.LastMessage)
	}

	maxTitleLen := p.width - 12
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := stage.Title
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	line := fmt.Sprintf(" %s %s - %s%s", icon, title, stage.Status, p.messageStyle.Render(suffix))
	if selected {
		return p.selectedStyle.Render(line)
	}
	return p.normalStyle.Render(line)
}

// statusIcon returns the icon for a stage status. Unrecognized statuses get
// the half-done marker: in progress, unknown substate.
func (p *StagesPanel) statusIcon(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return p.pendingStyle.Render(iconPending)
	case "running":
		return p.runningStyle.Render(iconRunning)
	case "completed":
		return p.doneStyle.Render(iconDone)
	case "attention":
		return p.failedStyle.Render(iconFailed)
	case "blocked":
		return p.blockedStyle.Render(iconWaiting)
	default:
		return p.pendingStyle.Render(iconWaiting)
	}
}

// StageCount returns the number of displayed stages.
func (p *StagesPanel) StageCount() int {
	return len(p.stages)
}
