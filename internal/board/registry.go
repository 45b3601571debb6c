// Package board implements the snapshot reconciliation engine behind the
// progress board: the stage registry, the per-tick reconciler, and the
// one-shot completion gate.
package board

import (
	"strings"

	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

// Registry holds the ordered list of known stages. Stages are appended in
// first-seen order and never removed or reshuffled; only titles may be
// corrected in place.
type Registry struct {
	entries []snapshot.StageDefinition
	index   map[string]int
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Record inserts a stage definition if unseen, otherwise corrects its title
// in place. Ids are trimmed and compared case-sensitively; an id that is
// empty after trimming is ignored. Returns true if the registry changed.
func (r *Registry) Record(id, title string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = id
	}

	if pos, ok := r.index[id]; ok {
		if r.entries[pos].Title == title {
			return false
		}
		r.entries[pos].Title = title
		return true
	}

	r.index[id] = len(r.entries)
	r.entries = append(r.entries, snapshot.StageDefinition{ID: id, Title: title})
	return true
}

// Title returns the stored title for id and whether the stage is known.
func (r *Registry) Title(id string) (string, bool) {
	pos, ok := r.index[id]
	if !ok {
		return "", false
	}
	return r.entries[pos].Title, true
}

// Entries returns a copy of the registered definitions in first-seen order.
func (r *Registry) Entries() []snapshot.StageDefinition {
	out := make([]snapshot.StageDefinition, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered stages.
func (r *Registry) Len() int {
	return len(r.entries)
}
