// Package workerpool is the asynchronous data layer sitting between HTTP
// handlers and the discovery engine. A single receiver goroutine serves
// DataRequest messages from its in-memory ResponseCache or spawns a
// background task to build the missing entry, so request handlers never
// block the receiver on filesystem I/O.
package workerpool

import hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"

// Result is delivered on a request's reply channel: either a ready-to-write
// JSON payload, or an error.
type Result struct {
	Body []byte
	Err  error
}

// ErrProjectNotFound is returned when a named project is unknown.
var ErrProjectNotFound = hgerrors.NotFoundError("project not found").Build()

// GetProjects requests the cached list of lightweight project records
// (name + workflow_state).
type GetProjects struct {
	Reply chan<- Result
}

// GetProjectMetrics requests the full ProjectInfo document for one project.
type GetProjectMetrics struct {
	Name  string
	Reply chan<- Result
}

// GetAllProjects requests the AllProjectsAggregate document.
type GetAllProjects struct {
	Reply chan<- Result
}

// RefreshCache invalidates cache entries and triggers a re-scan. It carries
// no reply channel: callers do not wait for completion.
type RefreshCache struct {
	// ProjectName is nil to refresh every project, or set to refresh one.
	ProjectName *string
}
