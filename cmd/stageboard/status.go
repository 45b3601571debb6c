package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot summary of the snapshot feed",
	Long: `Read the progress snapshot once and print each stage's status
without starting the live board.`,
	RunE: runStatusSummary,
}

func runStatusSummary(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(snapshotPath) == "" {
		return fmt.Errorf("--snapshot is required")
	}

	snap := snapshot.Load(afero.NewOsFs(), snapshotPath)
	if snap == nil {
		fmt.Printf("No snapshot feed at %s\n", snapshotPath)
		return nil
	}
	if snap.Len() == 0 {
		fmt.Println("Snapshot present, no stages reported yet.")
		return nil
	}

	terminal := 0
	for _, id := range snap.Order {
		stage := snap.Stages[id]
		status := stage.Status
		if status == "" {
			status = "pending"
		}
		if board.Terminal(status) {
			terminal++
		}

		suffix := ""
		for i := len(stage.Messages) - 1; i >= 0; i-- {
			if text := strings.TrimSpace(stage.Messages[i]); text != "" {
				suffix = fmt.Sprintf(" (%s)", text)
				break
			}
		}

		fmt.Printf("  %s %s - %s%s\n", statusMark(status), stage.Title, status, suffix)
	}

	fmt.Printf("\n%d/%d stages terminal\n", terminal, snap.Len())
	return nil
}

// statusMark returns a colored marker for a stage status.
func statusMark(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed":
		return color.GreenString("✓")
	case "running":
		return color.CyanString("●")
	case "attention":
		return color.RedString("✗")
	case "blocked":
		return color.YellowString("◐")
	case "pending":
		return color.New(color.Faint).Sprint("○")
	default:
		return color.New(color.Faint).Sprint("◐")
	}
}
