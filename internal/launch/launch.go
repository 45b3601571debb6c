// Package launch implements the contract between a caller that supervises a
// background worker and the progress board observing it. Configuration-time
// validation failures are reported as structured results, never panics.
package launch

import (
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Params is the caller-supplied launch payload.
type Params struct {
	// SnapshotPath locates the progress snapshot feed. Required.
	SnapshotPath string
	// StagesFile optionally names a YAML stage definitions pre-seed.
	StagesFile string
}

// Metadata describes how a launch request was resolved.
type Metadata struct {
	SnapshotExists  bool `json:"snapshot_exists"`
	FallbackApplied bool `json:"fallback_applied"`
	Launched        bool `json:"launched"`
	WorkerAttached  bool `json:"worker_attached"`
	StageCount      int  `json:"stage_count"`
}

// Result is the structured outcome of a launch request.
type Result struct {
	Status           string                     `json:"status"`
	Message          string                     `json:"message,omitempty"`
	SnapshotPath     string                     `json:"snapshot_path,omitempty"`
	StageDefinitions []snapshot.StageDefinition `json:"stage_definitions,omitempty"`
	Metadata         Metadata                   `json:"metadata"`
}

// Failed reports whether the result is a failure.
func (r Result) Failed() bool {
	return r.Status == StatusFailure
}

func failure(message string) Result {
	return Result{Status: StatusFailure, Message: message}
}

// Describe validates the launch payload and resolves stage definitions
// without launching anything. Invalid payloads come back as failure results.
func Describe(fs afero.Fs, params Params) Result {
	path := strings.TrimSpace(params.SnapshotPath)
	if path == "" {
		return failure("input payload failed validation: snapshot path is required")
	}

	exists := snapshot.Load(fs, path) != nil

	var defs []snapshot.StageDefinition
	if params.StagesFile != "" {
		loaded, err := DefinitionsFromFile(fs, params.StagesFile)
		if err != nil {
			return failure("input payload failed validation: " + err.Error())
		}
		defs = loaded
	}
	if len(defs) == 0 {
		defs = LayoutFromSnapshot(fs, path)
	}
	defs, fallback := Fallback(defs)

	return Result{
		Status:           StatusSuccess,
		SnapshotPath:     path,
		StageDefinitions: defs,
		Metadata: Metadata{
			SnapshotExists:  exists,
			FallbackApplied: fallback,
			StageCount:      len(defs),
		},
	}
}

// Options carries everything a presentation runner needs to show a board.
type Options struct {
	SnapshotPath string
	Definitions  []snapshot.StageDefinition
	Done         *board.Signal
}

// Runner blocks displaying the board until completion or dismissal. The TUI
// is the production runner; tests inject their own.
type Runner func(Options) error

// Worker is the supervised background task. It receives the done signal so
// it can mark early completion; the supervisor sets the signal when the
// worker returns regardless.
type Worker func(done *board.Signal)

// Supervise validates params, spawns the worker, and blocks in the runner
// until the board completes. The worker is joined before Supervise returns.
func Supervise(fs afero.Fs, params Params, worker Worker, runner Runner) (Result, error) {
	result := Describe(fs, params)
	if result.Failed() {
		return result, nil
	}

	done := board.NewSignal()

	var wg sync.WaitGroup
	if worker != nil {
		result.Metadata.WorkerAttached = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer done.Set()
			worker(done)
		}()
	} else {
		// No worker to wait on: the board completes on its first
		// successful poll.
		done.Set()
	}

	err := runner(Options{
		SnapshotPath: result.SnapshotPath,
		Definitions:  result.StageDefinitions,
		Done:         done,
	})
	wg.Wait()

	if err == nil {
		result.Metadata.Launched = true
	}
	return result, err
}
