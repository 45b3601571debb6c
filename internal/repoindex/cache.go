// Package repoindex caches per-stage repository sub-progress loaded from
// auxiliary index files. Entries are reloaded only when the index file's
// modification time changes.
package repoindex

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// MetadataKey is the stage metadata key naming the index file for that stage.
const MetadataKey = "repo_progress_index_path"

// cacheEntry pairs the parsed entries with the fingerprint of the file they
// came from.
type cacheEntry struct {
	path    string
	mtime   time.Time
	entries []Entry
}

// Cache holds one cached index per stage id. All access happens from the
// polling context; the cache owns its map exclusively.
type Cache struct {
	fs      afero.Fs
	entries map[string]*cacheEntry

	// loads counts index file reads, for tests asserting mtime gating.
	loads int
}

// NewCache creates a cache reading through fs. Pass afero.NewOsFs() for
// production use.
func NewCache(fs afero.Fs) *Cache {
	return &Cache{fs: fs, entries: make(map[string]*cacheEntry)}
}

// Refresh reconciles the cached entries for one stage against its snapshot
// metadata. It returns the entries now cached for the stage, or nil when the
// stage declares no index, the file is unreadable, or the payload is
// malformed; in those cases any cached entry for the stage is dropped.
// Failures are silent misses, never errors.
func (c *Cache) Refresh(stageID string, metadata map[string]any) []Entry {
	entry := c.load(stageID, metadata)
	if entry == nil {
		delete(c.entries, stageID)
		return nil
	}
	c.entries[stageID] = entry
	return entry.entries
}

// load resolves, fingerprints, and (when stale) re-parses a stage's index.
func (c *Cache) load(stageID string, metadata map[string]any) *cacheEntry {
	raw, ok := metadata[MetadataKey].(string)
	if !ok || raw == "" {
		return nil
	}

	info, err := c.fs.Stat(raw)
	if err != nil {
		return nil
	}
	mtime := info.ModTime()

	if cached, ok := c.entries[stageID]; ok && cached.path == raw && cached.mtime.Equal(mtime) {
		return cached
	}

	payload := c.readIndex(raw)
	if payload == nil {
		return nil
	}

	entriesDir := filepath.Dir(raw)
	if declared, ok := payload["entries_dir"].(string); ok {
		if dir := strings.TrimSpace(declared); dir != "" {
			if filepath.IsAbs(dir) {
				entriesDir = dir
			} else {
				entriesDir = filepath.Join(filepath.Dir(raw), dir)
			}
		}
	}

	return &cacheEntry{
		path:    raw,
		mtime:   mtime,
		entries: normalizeEntries(payload["entries"], entriesDir),
	}
}

// readIndex parses the index file as a JSON object. Any read or decode
// failure, or a non-object payload, yields nil.
func (c *Cache) readIndex(path string) map[string]any {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil
	}
	c.loads++
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return payload
}

// Entries returns the cached entries for a stage, if any.
func (c *Cache) Entries(stageID string) []Entry {
	entry, ok := c.entries[stageID]
	if !ok {
		return nil
	}
	return entry.entries
}

// Prune discards cached indexes for stage ids not in observed. Bounds memory
// as stages are renamed or the run reconfigured.
func (c *Cache) Prune(observed map[string]bool) {
	for stageID := range c.entries {
		if !observed[stageID] {
			delete(c.entries, stageID)
		}
	}
}

// Len returns the number of cached stages.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Loads returns the number of index file reads performed so far.
func (c *Cache) Loads() int {
	return c.loads
}
