package board

import (
	"reflect"
	"testing"

	"github.com/ppnw-ai-corp/stageboard/internal/snapshot"
)

func TestRegistryRecordAppendsInFirstSeenOrder(t *testing.T) {
	reg := NewRegistry()

	reg.Record("alpha", "Alpha")
	reg.Record("beta", "Beta")
	reg.Record("gamma", "Gamma")

	want := []snapshot.StageDefinition{
		{ID: "alpha", Title: "Alpha"},
		{ID: "beta", Title: "Beta"},
		{ID: "gamma", Title: "Gamma"},
	}
	if got := reg.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestRegistryRecordNeverRemovesOrReorders(t *testing.T) {
	reg := NewRegistry()
	reg.Record("alpha", "Alpha")
	reg.Record("beta", "Beta")

	// Re-recording an existing stage must not move it.
	reg.Record("alpha", "Alpha")

	want := []snapshot.StageDefinition{
		{ID: "alpha", Title: "Alpha"},
		{ID: "beta", Title: "Beta"},
	}
	if got := reg.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestRegistryRecordCorrectsTitleInPlace(t *testing.T) {
	reg := NewRegistry()
	reg.Record("alpha", "Alhpa")
	reg.Record("beta", "Beta")

	if changed := reg.Record("alpha", "Alpha"); !changed {
		t.Error("Record() with corrected title = false, want true")
	}

	title, ok := reg.Title("alpha")
	if !ok || title != "Alpha" {
		t.Errorf("Title(alpha) = %q, %v, want \"Alpha\", true", title, ok)
	}
	if got := reg.Entries()[0].ID; got != "alpha" {
		t.Errorf("first entry id after correction = %q, want \"alpha\"", got)
	}
}

func TestRegistryRecordEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		title     string
		wantLen   int
		wantTitle string
	}{
		{"empty id ignored", "", "Title", 0, ""},
		{"whitespace id ignored", "   ", "Title", 0, ""},
		{"id trimmed", "  alpha  ", "Alpha", 1, "Alpha"},
		{"blank title falls back to id", "alpha", "  ", 1, "alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Record(tt.id, tt.title)
			if reg.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", reg.Len(), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if got, _ := reg.Title("alpha"); got != tt.wantTitle {
				t.Errorf("Title(alpha) = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestRegistryRecordUnchangedReturnsFalse(t *testing.T) {
	reg := NewRegistry()
	if !reg.Record("alpha", "Alpha") {
		t.Error("first Record() = false, want true")
	}
	if reg.Record("alpha", "Alpha") {
		t.Error("identical Record() = true, want false")
	}
}

func TestRegistryEntriesReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Record("alpha", "Alpha")

	entries := reg.Entries()
	entries[0].Title = "Mutated"

	if title, _ := reg.Title("alpha"); title != "Alpha" {
		t.Errorf("Title(alpha) after mutating copy = %q, want \"Alpha\"", title)
	}
}
