// Package hegelfmt reads the on-disk `.hegel/` workflow-tracking format: the
// current state file, the append-only JSONL event streams, and any archived
// workflow summaries. It is the one place in hegelpm that understands the
// on-disk layout; every other package consumes its typed results.
package hegelfmt

import "time"

// WorkflowState is the current workflow state for a project, as recorded in
// .hegel/state.json. It is opaque beyond mode/node and is used only for
// display.
type WorkflowState struct {
	Mode string `json:"mode"`
	Node string `json:"node"`
}

// Transition records movement from one node to another within a workflow's
// graph, as logged in .hegel/states.jsonl.
type Transition struct {
	WorkflowID string    `json:"workflow_id"`
	FromNode   string    `json:"from_node"`
	ToNode     string    `json:"to_node"`
	Timestamp  time.Time `json:"timestamp"`
	Mode       string    `json:"mode"`
}

// PhaseMetric is one named stage within a workflow, as recorded across
// .hegel/hooks.jsonl and archived workflow summaries.
type PhaseMetric struct {
	PhaseName           string     `json:"phase_name"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time,omitempty"`
	DurationSeconds     int64      `json:"duration_seconds"`
	InputTokens         int64      `json:"input_tokens"`
	OutputTokens        int64      `json:"output_tokens"`
	CacheCreationTokens int64      `json:"cache_creation_tokens"`
	CacheReadTokens     int64      `json:"cache_read_tokens"`
	BashCount           int64      `json:"bash_count"`
	FileModCount        int64      `json:"file_mod_count"`
	GitCount            int64      `json:"git_count"`
}

// GitCommit is one commit observed while a workflow was active, as recorded
// in command_log.jsonl.
type GitCommit struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// UnifiedMetrics aggregates everything recorded for a project across its live
// event log and any archived (pre-computed) workflow summaries.
type UnifiedMetrics struct {
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_tokens"`
	CacheReadTokens     int64 `json:"cache_read_tokens"`

	PhaseMetrics []PhaseMetric `json:"phase_metrics"`
	Transitions  []Transition  `json:"transitions"`

	EventCount   int64 `json:"event_count"`
	BashCount    int64 `json:"bash_count"`
	FileModCount int64 `json:"file_mod_count"`
	GitCount     int64 `json:"git_count"`

	GitCommits []GitCommit `json:"git_commits"`
}
