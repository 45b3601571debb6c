package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
	"github.com/ppnw-ai-corp/stageboard/internal/config"
	"github.com/ppnw-ai-corp/stageboard/internal/feed"
	"github.com/ppnw-ai-corp/stageboard/internal/history"
	"github.com/ppnw-ai-corp/stageboard/internal/launch"
	"github.com/ppnw-ai-corp/stageboard/internal/repoindex"
	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
	"github.com/ppnw-ai-corp/stageboard/internal/tui"
	"github.com/ppnw-ai-corp/stageboard/internal/worker"
)

var (
	snapshotPath string
	stagesFile   string
	follow       bool
	execCommand  string
)

var rootCmd = &cobra.Command{
	Use:   "stageboard",
	Short: "Live progress board for multi-stage orchestration runs",
	Long: `Stageboard mirrors the progress of a multi-stage external process by
polling its shared snapshot file and rendering a live stage checklist with
per-repository sub-progress.

By default the board treats the run as already finished and closes shortly
after the first successful snapshot read (inspection mode). Pass --follow to
keep polling until you quit, or --exec to supervise the worker command
yourself and close when it exits.`,
	RunE: runBoard,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Path to the progress snapshot JSON (required)")
	rootCmd.Flags().StringVar(&stagesFile, "stages", "", "Optional YAML file pre-seeding stage definitions")
	rootCmd.Flags().BoolVar(&follow, "follow", false, "Keep polling until quit instead of closing after the first read")
	rootCmd.Flags().StringVar(&execCommand, "exec", "", "Shell command to run as the supervised worker; its exit closes the board")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := afero.NewOsFs()
	result := launch.Describe(fs, launch.Params{
		SnapshotPath: snapshotPath,
		StagesFile:   stagesFile,
	})
	if result.Failed() {
		return errors.New(result.Message)
	}

	path := result.SnapshotPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if result.Metadata.FallbackApplied {
		fmt.Println("No stages reported yet; using default template.")
	}

	// Inspection mode observes a run that already finished. --exec ties the
	// signal to a supervised command; --follow leaves it to an external
	// worker (or the user quitting).
	done := board.NewSignal()
	switch {
	case execCommand != "":
		ctx, cancel := context.WithCancel(cmd.Context())
		wait := worker.Start(worker.Shell(ctx, "", execCommand), done)
		defer func() {
			cancel()
			wait()
		}()
	case !follow:
		done.Set()
	}

	rec := board.NewReconciler(func() *snapshot.Snapshot {
		return snapshot.Load(fs, path)
	}, repoindex.NewCache(fs), done)
	rec.Seed(result.StageDefinitions)

	var hints <-chan struct{}
	if watcher, err := feed.Watch(path); err == nil {
		hints = watcher.Hints()
		defer watcher.Close()
	}

	startedAt := time.Now()
	app := tui.NewBoardApp(rec, cfg.PollInterval, cfg.CloseDelay, hints)
	program := tui.NewBoardProgram(app, cfg.Board.AltScreen)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}

	if app.Completed() && cfg.History.Enabled {
		recordRun(cfg, path, rec, startedAt)
	}
	return nil
}

// recordRun appends the completed run to the history store. Best-effort: a
// broken store never fails the command.
func recordRun(cfg *config.Config, path string, rec *board.Reconciler, startedAt time.Time) {
	dbPath := cfg.History.Path
	if dbPath == "" {
		dbPath = history.DefaultPath()
	}

	db, err := history.Open(dbPath)
	if err != nil {
		return
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return
	}

	db.RecordRun(&history.Run{
		ID:           uuid.NewString(),
		SnapshotPath: path,
		StageCount:   rec.Registry().Len(),
		AllTerminal:  rec.AllTerminal(),
		StartedAt:    startedAt,
		CompletedAt:  time.Now(),
	})
}
