// Package aggregator transforms a raw UnifiedMetrics event stream into the
// grouped, per-workflow response shape served over HTTP. Every function here
// is pure: no I/O, no shared state, deterministic given its inputs.
package aggregator

import "github.com/dialecticianai/hegel-pm-sub000/internal/hegelfmt"

// WorkflowStatus classifies a workflow by whether any of its phases are
// still in progress. Aborted is accepted on input (future producers may
// emit it) but never produced by BuildWorkflowSummaries itself.
type WorkflowStatus string

const (
	StatusActive    WorkflowStatus = "active"
	StatusCompleted WorkflowStatus = "completed"
	StatusAborted   WorkflowStatus = "aborted"
)

// PhaseStatus classifies a single phase by whether it has an end_time.
type PhaseStatus string

const (
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
)

// unknownWorkflowID groups phases that have no corresponding transition.
const unknownWorkflowID = "unknown"

// MetricsSummary is the element-wise sum of token/event counters over some
// collection of phases.
type MetricsSummary struct {
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_tokens"`
	CacheReadTokens     int64 `json:"cache_read_tokens"`
	BashCount           int64 `json:"bash_count"`
	FileModCount        int64 `json:"file_mod_count"`
	GitCount            int64 `json:"git_count"`
}

func (m *MetricsSummary) add(p hegelfmt.PhaseMetric) {
	m.InputTokens += p.InputTokens
	m.OutputTokens += p.OutputTokens
	m.CacheCreationTokens += p.CacheCreationTokens
	m.CacheReadTokens += p.CacheReadTokens
	m.BashCount += p.BashCount
	m.FileModCount += p.FileModCount
	m.GitCount += p.GitCount
}

func (m *MetricsSummary) addSummary(o MetricsSummary) {
	m.InputTokens += o.InputTokens
	m.OutputTokens += o.OutputTokens
	m.CacheCreationTokens += o.CacheCreationTokens
	m.CacheReadTokens += o.CacheReadTokens
	m.BashCount += o.BashCount
	m.FileModCount += o.FileModCount
	m.GitCount += o.GitCount
}

// PhaseSummary is one named stage within a workflow.
type PhaseSummary struct {
	PhaseName       string         `json:"phase_name"`
	Status          PhaseStatus    `json:"status"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time,omitempty"`
	DurationSeconds int64          `json:"duration_seconds"`
	Metrics         MetricsSummary `json:"metrics"`
}

// WorkflowSummary groups every phase that belongs to one workflow_id.
type WorkflowSummary struct {
	WorkflowID   string         `json:"workflow_id"`
	Mode         string         `json:"mode"`
	Status       WorkflowStatus `json:"status"`
	CurrentPhase string         `json:"current_phase,omitempty"`
	Phases       []PhaseSummary `json:"phases"`
	TotalMetrics MetricsSummary `json:"total_metrics"`
}

// ProjectMetricsSummary is the scalar rollup across an entire project.
type ProjectMetricsSummary struct {
	MetricsSummary
	EventCount int64 `json:"event_count"`
	PhaseCount int64 `json:"phase_count"`
}

// ProjectWorkflowDetail carries the current display state and the grouped
// workflow history for a project.
type ProjectWorkflowDetail struct {
	CurrentWorkflowState *hegelfmt.WorkflowState `json:"current_workflow_state,omitempty"`
	Workflows            []WorkflowSummary       `json:"workflows"`
}

// ProjectInfo is the full per-project response shape served by
// GET /api/projects/{name}/metrics.
type ProjectInfo struct {
	ProjectName string                `json:"project_name"`
	Summary     ProjectMetricsSummary `json:"summary"`
	Detail      ProjectWorkflowDetail `json:"detail"`
}

// AggregateMetrics is the same scalar rollup as ProjectMetricsSummary,
// summed across every discovered project.
type AggregateMetrics = ProjectMetricsSummary

// AllProjectsAggregate is the response shape for GET /api/all-projects.
type AllProjectsAggregate struct {
	TotalProjects    int              `json:"total_projects"`
	AggregateMetrics AggregateMetrics `json:"aggregate_metrics"`
}
