package board

import (
	"strings"

	"github.com/ppnw-ai-corp/stageboard/internal/repoindex"
	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

// Status text surfaced alongside the stage checklist.
const (
	StatusInitializing = "Initializing progress feed..."
	StatusWaitingFeed  = "Waiting for progress snapshot feed..."
	StatusTracking     = "Tracking stages..."
	StatusAllReported  = "All stages reported. Waiting for worker shutdown..."
	StatusFinished     = "Worker finished. Closing board..."
)

// terminalStatuses are the case-folded statuses after which a stage will not
// change further.
var terminalStatuses = map[string]bool{
	"completed": true,
	"attention": true,
	"blocked":   true,
}

// Terminal reports whether a stage status marks the stage as finished.
// Unrecognized statuses count as still in progress.
func Terminal(status string) bool {
	return terminalStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// StageView is the display state of one registered stage.
type StageView struct {
	ID       string
	Title    string
	Status   string
	Terminal bool
	// LastMessage is the most recent non-empty message, or "".
	LastMessage string
}

// Outcome is the result of a single poll.
type Outcome struct {
	// Observed reports whether a snapshot was read this tick.
	Observed bool
	// Stages lists display state in registry order.
	Stages []StageView
	// Status is the advisory status line.
	Status string
	// AllTerminal is true when at least one stage is known and every known
	// stage has a terminal status. Advisory only; it never completes the run
	// by itself.
	AllTerminal bool
	// Completed is true on exactly one tick: the one where the completion
	// gate fires.
	Completed bool
}

// Loader supplies the latest snapshot, or nil when none is available.
type Loader func() *snapshot.Snapshot

// Reconciler merges polled snapshots into stable display state. It owns the
// stage registry and per-stage views exclusively; the repo index cache is
// refreshed on its behalf each tick. All methods run on the polling context.
type Reconciler struct {
	loader   Loader
	registry *Registry
	cache    *repoindex.Cache
	done     *Signal
	gate     *Gate

	status string
	views  []StageView
}

// NewReconciler creates a reconciler. The cache may be nil when repository
// sub-progress is not tracked.
func NewReconciler(loader Loader, cache *repoindex.Cache, done *Signal) *Reconciler {
	return &Reconciler{
		loader:   loader,
		registry: NewRegistry(),
		cache:    cache,
		done:     done,
		gate:     NewGate(),
		status:   StatusInitializing,
	}
}

// Seed pre-populates the registry from initial stage definitions.
func (r *Reconciler) Seed(defs []snapshot.StageDefinition) {
	for _, def := range defs {
		r.registry.Record(def.ID, def.Title)
	}
	r.rebuildViews(nil)
}

// Registry exposes the stage registry for read-side callers.
func (r *Reconciler) Registry() *Registry {
	return r.registry
}

// RepoEntries returns the cached repository entries for a stage.
func (r *Reconciler) RepoEntries(stageID string) []repoindex.Entry {
	if r.cache == nil {
		return nil
	}
	return r.cache.Entries(stageID)
}

// Completed reports whether the completion gate has fired.
func (r *Reconciler) Completed() bool {
	return r.gate.Fired()
}

// Tick performs one poll: read the snapshot, merge it into the registry and
// views, refresh the repo index cache, and evaluate the completion gate.
func (r *Reconciler) Tick() Outcome {
	snap := r.loader()
	if snap == nil {
		// No feed this poll: state stays exactly as it was.
		if !r.gate.Fired() {
			r.status = StatusWaitingFeed
		}
		return Outcome{
			Stages:      r.viewsCopy(),
			Status:      r.status,
			AllTerminal: r.AllTerminal(),
		}
	}

	for _, id := range snap.Order {
		stage := snap.Stages[id]
		r.registry.Record(id, stage.Title)
	}

	allTerminal := r.rebuildViews(snap)
	r.refreshRepoIndexes(snap)

	if snap.Len() > 0 && !r.gate.Fired() {
		if allTerminal {
			r.status = StatusAllReported
		} else {
			r.status = StatusTracking
		}
	}

	completed := false
	if r.done.IsSet() && r.gate.Fire() {
		r.status = StatusFinished
		completed = true
	}

	return Outcome{
		Observed:    true,
		Stages:      r.viewsCopy(),
		Status:      r.status,
		AllTerminal: allTerminal && snap.Len() > 0,
		Completed:   completed,
	}
}

// rebuildViews recomputes display state for every registered stage, in
// registry order. A registered stage absent from the snapshot shows as
// pending with no messages; it is never dropped. Returns whether all known
// stages are terminal (false when no stages are known).
func (r *Reconciler) rebuildViews(snap *snapshot.Snapshot) bool {
	entries := r.registry.Entries()
	views := make([]StageView, 0, len(entries))
	allTerminal := len(entries) > 0

	for _, def := range entries {
		view := StageView{ID: def.ID, Title: def.Title, Status: "pending"}
		if stage, ok := snap.Get(def.ID); ok {
			if stage.Status != "" {
				view.Status = stage.Status
			}
			view.LastMessage = lastMessage(stage.Messages)
		}
		view.Terminal = Terminal(view.Status)
		if !view.Terminal {
			allTerminal = false
		}
		views = append(views, view)
	}

	r.views = views
	return allTerminal
}

// refreshRepoIndexes updates the cache for every stage in the snapshot and
// prunes stages the snapshot no longer mentions.
func (r *Reconciler) refreshRepoIndexes(snap *snapshot.Snapshot) {
	if r.cache == nil {
		return
	}
	observed := make(map[string]bool, snap.Len())
	for id, stage := range snap.Stages {
		observed[id] = true
		r.cache.Refresh(id, stage.Metadata)
	}
	r.cache.Prune(observed)
}

// AllTerminal reports whether at least one stage is known and every known
// stage currently shows a terminal status.
func (r *Reconciler) AllTerminal() bool {
	if len(r.views) == 0 {
		return false
	}
	for _, view := range r.views {
		if !view.Terminal {
			return false
		}
	}
	return true
}

func (r *Reconciler) viewsCopy() []StageView {
	out := make([]StageView, len(r.views))
	copy(out, r.views)
	return out
}

// lastMessage scans a message sequence from the end for the most recent
// non-empty entry.
func lastMessage(messages []string) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if text := strings.TrimSpace(messages[i]); text != "" {
			return text
		}
	}
	return ""
}
