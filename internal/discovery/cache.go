package discovery

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
)

const (
	indexFileName  = "index.bin"
	tmpSuffix      = ".tmp"
	binSuffix      = ".bin"
	cacheFilePerm  = 0o600
	cacheDirPerm   = 0o750
)

// cacheIndexEntry is one project's position in the persistent cache.
type cacheIndexEntry struct {
	Name         string
	ProjectPath  string
	LastActivity time.Time
}

// cacheIndex is the gob-encoded contents of index.bin.
type cacheIndex struct {
	Entries []cacheIndexEntry
}

// PersistentCache is a binary, memory-mapped, multi-file cache of
// DiscoveredProject records indexed by name. Writers use write-to-temp plus
// rename so readers never observe a partially written file; readers
// memory-map each file and decode from a copy of its bytes.
type PersistentCache struct {
	dir string
}

// NewPersistentCache returns a cache rooted at dir (created on first Save).
func NewPersistentCache(dir string) *PersistentCache {
	return &PersistentCache{dir: dir}
}

// Save writes every project record (with Statistics and GitHead cleared) to
// its own file, then writes an index covering all of them. Per-project
// failures are logged and skipped; an index write failure is returned to the
// caller.
func (c *PersistentCache) Save(projects []DiscoveredProject) error {
	if err := os.MkdirAll(c.dir, cacheDirPerm); err != nil {
		return hgerrors.WrapError(err, hgerrors.CategoryCache, "create cache directory").
			WithContext(logfields.KeyPath, c.dir).Build()
	}

	index := cacheIndex{Entries: make([]cacheIndexEntry, 0, len(projects))}

	for _, p := range projects {
		record := p
		record.Statistics = nil
		record.GitHead = nil

		if err := c.writeProjectFile(record); err != nil {
			slog.Error("failed to write project cache file", logfields.Project(p.Name), logfields.Error(err))
			continue
		}

		index.Entries = append(index.Entries, cacheIndexEntry{
			Name:         p.Name,
			ProjectPath:  p.ProjectPath,
			LastActivity: p.LastActivity,
		})
	}

	if err := c.writeIndex(index); err != nil {
		return hgerrors.WrapError(err, hgerrors.CategoryCache, "write cache index").Build()
	}

	return nil
}

func (c *PersistentCache) writeProjectFile(record DiscoveredProject) error {
	path := filepath.Join(c.dir, sanitize(record.Name)+binSuffix)
	return writeGobAtomic(path, record)
}

func (c *PersistentCache) writeIndex(index cacheIndex) error {
	path := filepath.Join(c.dir, indexFileName)
	return writeGobAtomic(path, index)
}

func writeGobAtomic(path string, value any) error {
	tmpPath := path + tmpSuffix

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if err := os.WriteFile(tmpPath, buf.Bytes(), cacheFilePerm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// Load returns the cached project list, or (nil, nil) if no cache exists
// yet. An error indicates the index itself is corrupted; callers should
// treat that as a signal to trigger a full re-scan. Per-project files that
// are missing or unreadable are skipped with a warning — a partial result
// is preferred over failing the whole load.
func (c *PersistentCache) Load() ([]DiscoveredProject, error) {
	indexPath := filepath.Join(c.dir, indexFileName)

	raw, err := mmapReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, hgerrors.WrapError(err, hgerrors.CategoryCache, "read cache index").
			WithContext(logfields.KeyPath, indexPath).Build()
	}

	var index cacheIndex
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&index); err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryCache, "cache index corrupted").
			WithContext(logfields.KeyPath, indexPath).Build()
	}

	projects := make([]DiscoveredProject, 0, len(index.Entries))
	for _, entry := range index.Entries {
		record, ok := c.loadProjectFile(entry.Name)
		if !ok {
			continue
		}
		projects = append(projects, record)
	}

	return projects, nil
}

func (c *PersistentCache) loadProjectFile(name string) (DiscoveredProject, bool) {
	path := filepath.Join(c.dir, sanitize(name)+binSuffix)

	raw, err := mmapReadFile(path)
	if err != nil {
		slog.Warn("project cache file missing or unreadable", logfields.Project(name), logfields.Error(err))
		return DiscoveredProject{}, false
	}

	var record DiscoveredProject
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&record); err != nil {
		slog.Warn("project cache file corrupted, skipping", logfields.Project(name), logfields.Error(err))
		return DiscoveredProject{}, false
	}

	return record, true
}

// Remove deletes a single project's cache file. Absence is not an error.
func (c *PersistentCache) Remove(name string) error {
	path := filepath.Join(c.dir, sanitize(name)+binSuffix)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return hgerrors.WrapError(err, hgerrors.CategoryCache, "remove project cache file").
			WithContext(logfields.KeyProject, name).Build()
	}
	return nil
}

// sanitize maps any character outside [A-Za-z0-9._-] to '_' so the
// resulting name is a valid filename component on every target filesystem.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
