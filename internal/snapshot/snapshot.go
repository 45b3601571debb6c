// Package snapshot reads and writes the shared progress snapshot file that
// the background worker publishes and the board polls.
package snapshot

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Stage is one named phase of the observed run.
type Stage struct {
	ID       string         `json:"stage_id"`
	Title    string         `json:"title"`
	Status   string         `json:"status"`
	Messages []string       `json:"messages,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Snapshot is a point-in-time record of all known stages.
type Snapshot struct {
	// Stages maps stage id to its record.
	Stages map[string]Stage
	// Order lists stage ids in the order the feed reported them.
	Order []string
}

// StageDefinition is an (id, title) pair used to seed a board.
type StageDefinition struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// wireStage tolerates both "stage_id" and "id" keys on the wire.
type wireStage struct {
	StageID  string         `json:"stage_id,omitempty"`
	ID       string         `json:"id,omitempty"`
	Title    string         `json:"title"`
	Status   string         `json:"status"`
	Messages []string       `json:"messages,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type wireSnapshot struct {
	Stages json.RawMessage `json:"stages"`
}

// Load reads the snapshot at path. It returns nil when the file is missing,
// unreadable, or malformed; the caller treats that as "no feed this poll".
func Load(fs afero.Fs, path string) *Snapshot {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil
	}
	return Parse(data)
}

// Parse decodes snapshot JSON. The stages field may be either an array of
// stage objects or an object keyed by stage id. Returns nil on malformed
// input.
func Parse(data []byte) *Snapshot {
	var wire wireSnapshot
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil
	}

	snap := &Snapshot{Stages: make(map[string]Stage)}
	if len(wire.Stages) == 0 {
		return snap
	}

	var list []wireStage
	if err := json.Unmarshal(wire.Stages, &list); err == nil {
		for _, ws := range list {
			snap.add(ws.StageID, ws)
		}
		return snap
	}

	var byID map[string]wireStage
	if err := json.Unmarshal(wire.Stages, &byID); err != nil {
		return nil
	}
	keys := make([]string, 0, len(byID))
	for key := range byID {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		snap.add(key, byID[key])
	}
	return snap
}

// add normalizes one wire stage into the snapshot. Empty ids are skipped.
func (s *Snapshot) add(preferredID string, ws wireStage) {
	id := strings.TrimSpace(preferredID)
	if id == "" {
		id = strings.TrimSpace(ws.StageID)
	}
	if id == "" {
		id = strings.TrimSpace(ws.ID)
	}
	if id == "" {
		return
	}

	title := strings.TrimSpace(ws.Title)
	if title == "" {
		title = id
	}

	if _, exists := s.Stages[id]; !exists {
		s.Order = append(s.Order, id)
	}
	s.Stages[id] = Stage{
		ID:       id,
		Title:    title,
		Status:   ws.Status,
		Messages: ws.Messages,
		Metadata: ws.Metadata,
	}
}

// Get returns the stage record for id, if present.
func (s *Snapshot) Get(id string) (Stage, bool) {
	if s == nil {
		return Stage{}, false
	}
	st, ok := s.Stages[id]
	return st, ok
}

// Len returns the number of stages in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Stages)
}

// New builds a pending snapshot from stage definitions. Used by the worker
// side of the launch contract to publish an initial feed.
func New(defs []StageDefinition) *Snapshot {
	snap := &Snapshot{Stages: make(map[string]Stage)}
	for _, def := range defs {
		snap.add(def.ID, wireStage{Title: def.Title, Status: "pending"})
	}
	return snap
}

// Write persists the snapshot at path in the array wire form.
func Write(fs afero.Fs, path string, snap *Snapshot) error {
	stages := make([]wireStage, 0, len(snap.Order))
	for _, id := range snap.Order {
		st := snap.Stages[id]
		stages = append(stages, wireStage{
			StageID:  st.ID,
			ID:       st.ID,
			Title:    st.Title,
			Status:   st.Status,
			Messages: st.Messages,
			Metadata: st.Metadata,
		})
	}
	payload, err := json.MarshalIndent(map[string]any{"stages": stages}, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, payload, 0644)
}
