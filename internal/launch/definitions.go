package launch

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

// Default placeholder used when no stage definitions are available.
const (
	DefaultStageID    = "environment"
	DefaultStageTitle = "Environment"
)

// LayoutFromSnapshot derives initial stage definitions from an existing
// snapshot. Returns nil when the snapshot is missing or empty.
func LayoutFromSnapshot(fs afero.Fs, path string) []snapshot.StageDefinition {
	snap := snapshot.Load(fs, path)
	if snap == nil {
		return nil
	}
	var defs []snapshot.StageDefinition
	for _, id := range snap.Order {
		stage := snap.Stages[id]
		trimmed := strings.TrimSpace(stage.ID)
		if trimmed == "" {
			continue
		}
		title := strings.TrimSpace(stage.Title)
		if title == "" {
			title = trimmed
		}
		defs = append(defs, snapshot.StageDefinition{ID: trimmed, Title: title})
	}
	return defs
}

// definitionsFile is the YAML shape of a stage definitions pre-seed file.
type definitionsFile struct {
	Stages []snapshot.StageDefinition `yaml:"stages"`
}

// DefinitionsFromFile reads stage definitions from a YAML file of the form
//
//	stages:
//	  - id: environment
//	    title: Environment
func DefinitionsFromFile(fs afero.Fs, path string) ([]snapshot.StageDefinition, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading stage definitions: %w", err)
	}
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing stage definitions: %w", err)
	}

	var defs []snapshot.StageDefinition
	for _, def := range file.Stages {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			continue
		}
		title := strings.TrimSpace(def.Title)
		if title == "" {
			title = id
		}
		defs = append(defs, snapshot.StageDefinition{ID: id, Title: title})
	}
	return defs, nil
}

// Fallback substitutes the default single-stage placeholder when defs is
// empty. The second return reports whether the fallback applied.
func Fallback(defs []snapshot.StageDefinition) ([]snapshot.StageDefinition, bool) {
	if len(defs) > 0 {
		return defs, false
	}
	return []snapshot.StageDefinition{{ID: DefaultStageID, Title: DefaultStageTitle}}, true
}
