package repoindex

import (
	"path/filepath"
	"strings"
)

// placeholderName is shown when an entry carries neither a display name nor
// a repo id.
const placeholderName = "<repo>"

// Entry is one repository's sub-progress row from a stage's index file.
type Entry struct {
	RepoID      string
	DisplayName string
	Status      string
	UpdatedAt   string
	Messages    []string
	// DetailPath is the absolute path to the per-repo detail log, when the
	// index declares one.
	DetailPath string
}

// normalizeEntry converts one raw index entry into an Entry. Relative detail
// paths resolve against entriesDir.
func normalizeEntry(raw map[string]any, entriesDir string) Entry {
	entry := Entry{
		RepoID:      stringField(raw, "repo_id"),
		Status:      stringField(raw, "status"),
		UpdatedAt:   stringField(raw, "updated_at"),
		DisplayName: stringField(raw, "display_name"),
		Messages:    normalizeMessages(raw["message_preview"]),
	}
	if entry.DisplayName == "" {
		entry.DisplayName = entry.RepoID
	}
	if entry.DisplayName == "" {
		entry.DisplayName = placeholderName
	}
	if entry.Status == "" {
		entry.Status = "pending"
	}

	if detail, ok := raw["detail_path"].(string); ok && detail != "" {
		resolved := detail
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(entriesDir, resolved)
		}
		if abs, err := filepath.Abs(resolved); err == nil {
			resolved = abs
		}
		entry.DetailPath = resolved
	}
	return entry
}

// normalizeEntries filters the raw entries payload down to well-formed
// objects. Non-object elements are dropped; siblings still process.
func normalizeEntries(payload any, entriesDir string) []Entry {
	list, ok := payload.([]any)
	if !ok {
		return nil
	}
	entries := make([]Entry, 0, len(list))
	for _, item := range list {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, normalizeEntry(raw, entriesDir))
	}
	return entries
}

// normalizeMessages canonicalizes a message_preview value. A scalar string
// becomes a one-element sequence; sequences are trimmed and empty-filtered;
// anything else yields nil.
func normalizeMessages(raw any) []string {
	switch v := raw.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		return []string{text}
	case []any:
		var out []string
		for _, item := range v {
			text, ok := item.(string)
			if !ok {
				continue
			}
			text = strings.TrimSpace(text)
			if text != "" {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
