package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppnw-ai-corp/stageboard/internal/config"
	"github.com/ppnw-ai-corp/stageboard/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently observed runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.History.Path
	if dbPath == "" {
		dbPath = history.DefaultPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No run history yet.")
		return nil
	}

	db, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate history: %w", err)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No run history yet.")
		return nil
	}

	for _, run := range runs {
		terminal := "partial"
		if run.AllTerminal {
			terminal = "all terminal"
		}
		shortID := run.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Printf("  %s  %s  %d stages (%s)  %s\n",
			run.CompletedAt.Format("2006-01-02 15:04"),
			shortID,
			run.StageCount,
			terminal,
			run.SnapshotPath)
	}
	return nil
}
