package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppnw-ai-corp/stageboard/internal/repoindex"
)

// ReposPanel displays per-repository sub-progress for the selected stage.
type ReposPanel struct {
	table   table.Model
	width   int
	height  int
	focused bool

	titleStyle lipgloss.Style
	emptyStyle lipgloss.Style
}

// NewReposPanel creates a new ReposPanel instance.
func NewReposPanel() *ReposPanel {
	t := table.New(
		table.WithColumns(repoColumns(60)),
		table.WithFocused(false),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color("15")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("15"))
	t.SetStyles(styles)

	return &ReposPanel{
		table: t,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
	}
}

// repoColumns sizes the table columns for the given panel width.
func repoColumns(width int) []table.Column {
	name := width * 3 / 10
	status := width * 15 / 100
	updated := width * 2 / 10
	messages := width - name - status - updated
	if messages < 10 {
		messages = 10
	}
	return []table.Column{
		{Title: "Repository", Width: name},
		{Title: "Status", Width: status},
		{Title: "Updated", Width: updated},
		{Title: "Messages", Width: messages},
	}
}

// SetEntries replaces the displayed repository rows.
func (p *ReposPanel) SetEntries(entries []repoindex.Entry) {
	rows := make([]table.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, table.Row{
			entry.DisplayName,
			entry.Status,
			entry.UpdatedAt,
			strings.Join(entry.Messages, " | "),
		})
	}
	p.table.SetRows(rows)
}

// SetSize updates the panel dimensions.
func (p *ReposPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.table.SetColumns(repoColumns(width - 6))
	rows := height - 6
	if rows < 3 {
		rows = 3
	}
	p.table.SetHeight(rows)
}

// SetFocused sets whether this panel has keyboard focus.
func (p *ReposPanel) SetFocused(focused bool) {
	p.focused = focused
	if focused {
		p.table.Focus()
	} else {
		p.table.Blur()
	}
}

// MoveUp moves the row cursor up.
func (p *ReposPanel) MoveUp() {
	p.table.MoveUp(1)
}

// MoveDown moves the row cursor down.
func (p *ReposPanel) MoveDown() {
	p.table.MoveDown(1)
}

// RowCount returns the number of displayed rows.
func (p *ReposPanel) RowCount() int {
	return len(p.table.Rows())
}

// View renders the repository detail panel.
func (p *ReposPanel) View() string {
	var b strings.Builder

	title := "Repository progress"
	if p.focused {
		title = "[Repository progress]"
	}
	b.WriteString(p.titleStyle.Render(title))
	b.WriteString("\n")

	if p.RowCount() == 0 {
		b.WriteString(p.emptyStyle.Render("  No repository details for this stage"))
	} else {
		b.WriteString(p.table.View())
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
