package discovery

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dialecticianai/hegel-pm-sub000/internal/config"
	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/gitinfo"
	"github.com/dialecticianai/hegel-pm-sub000/internal/hegelfmt"
	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
)

// Engine orchestrates the Walker and the .hegel/ format readers across all
// configured roots, and owns the persistent cache. Its project list is held
// behind a single-writer, many-reader lock; reads never block on I/O.
type Engine struct {
	cfg   *config.Config
	cache *PersistentCache

	mu       sync.RWMutex
	projects []DiscoveredProject
}

// NewEngine builds an Engine for the given configuration. It does not scan
// or load the cache itself — call GetProjects to populate the list.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		cfg:   cfg,
		cache: NewPersistentCache(cfg.CacheDir()),
	}
}

// GetProjects returns the current project list. With forceRefresh false, a
// valid persistent cache is preferred over a fresh scan. With forceRefresh
// true, a fresh scan always runs and the cache is overwritten.
func (e *Engine) GetProjects(forceRefresh bool) []DiscoveredProject {
	if !forceRefresh {
		if loaded, err := e.cache.Load(); err != nil {
			slog.Warn("cache load failed, falling back to scan", logfields.Error(err))
		} else if loaded != nil {
			e.setProjects(loaded)
			return e.snapshot()
		}
	}

	projects := e.scan()
	e.setProjects(projects)

	if err := e.cache.Save(projects); err != nil {
		slog.Warn("cache save failed, continuing without persistence", logfields.Error(err))
	}

	return e.snapshot()
}

// LoadStatistics delegates to the .hegel/ metrics reader for one project,
// always including archived workflow totals.
func (e *Engine) LoadStatistics(name string) (*hegelfmt.UnifiedMetrics, error) {
	project, err := e.FindProject(name)
	if err != nil {
		return nil, err
	}

	metrics, err := hegelfmt.ParseUnifiedMetrics(project.HegelDir, true)
	if err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryScan, "load statistics").
			WithContext(logfields.KeyProject, name).Build()
	}

	return metrics, nil
}

// FindProject performs a linear lookup over the current project list.
func (e *Engine) FindProject(name string) (DiscoveredProject, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, p := range e.projects {
		if p.Name == name {
			return p, nil
		}
	}

	return DiscoveredProject{}, hgerrors.NotFoundError("project not found").
		WithContext(logfields.KeyProject, name).Build()
}

// RemoveProject removes a project from the in-memory list and the
// persistent cache. The project's own .hegel/ directory is untouched.
func (e *Engine) RemoveProject(name string) error {
	e.mu.Lock()
	filtered := e.projects[:0:0]
	for _, p := range e.projects {
		if p.Name != name {
			filtered = append(filtered, p)
		}
	}
	e.projects = filtered
	e.mu.Unlock()

	return e.cache.Remove(name)
}

// RefreshProjects re-scans the given project names (or every known project
// when names is empty), replacing their cached entries in place.
func (e *Engine) RefreshProjects(names []string) []DiscoveredProject {
	targets := map[string]struct{}{}
	for _, n := range names {
		targets[n] = struct{}{}
	}

	current := e.snapshot()
	byPath := map[string]DiscoveredProject{}
	for _, p := range current {
		byPath[p.ProjectPath] = p
	}

	var rescanPaths []string
	if len(targets) == 0 {
		for _, p := range current {
			rescanPaths = append(rescanPaths, p.ProjectPath)
		}
	} else {
		for _, p := range current {
			if _, ok := targets[p.Name]; ok {
				rescanPaths = append(rescanPaths, p.ProjectPath)
			}
		}
	}

	refreshed := make(map[string]DiscoveredProject, len(rescanPaths))
	for _, path := range rescanPaths {
		record := loadProject(path)
		refreshed[record.ProjectPath] = record
	}

	merged := make([]DiscoveredProject, 0, len(current))
	for _, p := range current {
		if r, ok := refreshed[p.ProjectPath]; ok {
			merged = append(merged, r)
		} else {
			merged = append(merged, p)
		}
	}

	sortByLastActivityDesc(merged)
	e.setProjects(merged)

	if err := e.cache.Save(merged); err != nil {
		slog.Warn("cache save failed after refresh", logfields.Error(err))
	}

	return e.snapshot()
}

// scan runs the Walker over every configured root, loads workflow state for
// each discovered project, and sorts the result by LastActivity descending.
func (e *Engine) scan() []DiscoveredProject {
	exclusions := e.cfg.ExclusionSet()

	var projects []DiscoveredProject
	for _, root := range e.cfg.Roots {
		paths := Walk(root, e.cfg.MaxDepth, exclusions)
		for _, path := range paths {
			projects = append(projects, loadProject(path))
		}
	}

	sortByLastActivityDesc(projects)
	return projects
}

// loadProject builds a DiscoveredProject for one discovered path. State and
// git-head errors are embedded in the record rather than aborting the scan.
func loadProject(projectPath string) DiscoveredProject {
	name := filepath.Base(projectPath)
	hegelDir := HegelDirFor(projectPath)

	record := DiscoveredProject{
		Name:         name,
		ProjectPath:  projectPath,
		HegelDir:     hegelDir,
		DiscoveredAt: time.Now().UTC(),
	}

	state, err := hegelfmt.LoadState(hegelDir)
	if err != nil {
		record.Error = err.Error()
	} else {
		record.WorkflowState = state
	}

	if head, err := gitinfo.ReadHead(projectPath); err == nil {
		record.GitHead = head
	}

	record.LastActivity = lastActivity(hegelDir)

	return record
}

// lastActivity is the most recent modification time among hegelDir's direct
// entries, or the zero time if it cannot be determined.
func lastActivity(hegelDir string) time.Time {
	entries, err := os.ReadDir(hegelDir)
	if err != nil {
		return time.Time{}
	}

	var latest time.Time
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}

	return latest
}

func sortByLastActivityDesc(projects []DiscoveredProject) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].LastActivity.After(projects[j].LastActivity)
	})
}

func (e *Engine) setProjects(projects []DiscoveredProject) {
	e.mu.Lock()
	e.projects = projects
	e.mu.Unlock()
}

func (e *Engine) snapshot() []DiscoveredProject {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]DiscoveredProject, len(e.projects))
	copy(out, e.projects)
	return out
}
