// Package discovery walks configured roots for .hegel/ project directories,
// loads their workflow state, and maintains a persistent on-disk cache of the
// results so repeated startups avoid a full filesystem scan.
package discovery

import (
	"path/filepath"
	"time"

	"github.com/dialecticianai/hegel-pm-sub000/internal/gitinfo"
	"github.com/dialecticianai/hegel-pm-sub000/internal/hegelfmt"
)

const hegelDirName = ".hegel"

// DiscoveredProject is one project found under a configured root. Records are
// never mutated after construction — a refresh replaces the entry wholesale.
type DiscoveredProject struct {
	Name          string                  `json:"name"`
	ProjectPath   string                  `json:"project_path"`
	HegelDir      string                  `json:"hegel_dir"`
	WorkflowState *hegelfmt.WorkflowState `json:"workflow_state,omitempty"`
	GitHead       *gitinfo.Head           `json:"git_head,omitempty"`
	LastActivity  time.Time               `json:"last_activity"`
	DiscoveredAt  time.Time               `json:"discovered_at"`
	Error         string                  `json:"error,omitempty"`

	// Statistics is always nil on records produced by the persistent cache
	// or by a scan — it is lazy-loaded on demand via Engine.LoadStatistics.
	Statistics *hegelfmt.UnifiedMetrics `json:"statistics,omitempty"`
}

// HegelDirFor returns the canonical .hegel path for a project directory.
func HegelDirFor(projectPath string) string {
	return filepath.Join(projectPath, hegelDirName)
}
