package hegelfmt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
)

const (
	stateFileName       = "state.json"
	hooksFileName       = "hooks.jsonl"
	statesFileName      = "states.jsonl"
	commandLogFileName  = "command_log.jsonl"
	archivesDirName     = "archives"
)

// LoadState reads .hegel/state.json. It returns (nil, nil) when the project
// is newly initialized (the file does not exist yet), and a classified error
// when the file exists but cannot be parsed.
func LoadState(hegelDir string) (*WorkflowState, error) {
	path := filepath.Join(hegelDir, stateFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, hgerrors.WrapError(err, hgerrors.CategoryScan, "read state.json").
			WithContext("path", path).Build()
	}

	var state WorkflowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryScan, "parse state.json").
			WithContext("path", path).Build()
	}

	return &state, nil
}

// ParseUnifiedMetrics reads hooks.jsonl, states.jsonl, command_log.jsonl, and
// (when includeArchives is true) any pre-aggregated archive files under
// .hegel/archives/, combining them into one UnifiedMetrics record. Malformed
// lines are skipped with a warning rather than failing the whole parse —
// a single corrupt event must not hide an entire project's history.
func ParseUnifiedMetrics(hegelDir string, includeArchives bool) (*UnifiedMetrics, error) {
	metrics := &UnifiedMetrics{}

	if err := appendHooks(hegelDir, metrics); err != nil {
		return nil, err
	}
	if err := appendTransitions(hegelDir, metrics); err != nil {
		return nil, err
	}
	if err := appendCommandLog(hegelDir, metrics); err != nil {
		return nil, err
	}

	if includeArchives {
		appendArchives(hegelDir, metrics)
	}

	return metrics, nil
}

type hookEvent struct {
	PhaseName           string     `json:"phase_name"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time,omitempty"`
	InputTokens         int64      `json:"input_tokens"`
	OutputTokens        int64      `json:"output_tokens"`
	CacheCreationTokens int64      `json:"cache_creation_tokens"`
	CacheReadTokens     int64      `json:"cache_read_tokens"`
	BashCount           int64      `json:"bash_count"`
	FileModCount        int64      `json:"file_mod_count"`
	GitCount            int64      `json:"git_count"`
}

func appendHooks(hegelDir string, metrics *UnifiedMetrics) error {
	path := filepath.Join(hegelDir, hooksFileName)

	return forEachJSONLLine(path, func(line int, raw []byte) {
		var ev hookEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			logMalformedLine(path, line, err)
			return
		}

		duration := int64(0)
		if ev.EndTime != nil {
			duration = int64(ev.EndTime.Sub(ev.StartTime).Seconds())
		}

		metrics.PhaseMetrics = append(metrics.PhaseMetrics, PhaseMetric{
			PhaseName:           ev.PhaseName,
			StartTime:           ev.StartTime,
			EndTime:             ev.EndTime,
			DurationSeconds:     duration,
			InputTokens:         ev.InputTokens,
			OutputTokens:        ev.OutputTokens,
			CacheCreationTokens: ev.CacheCreationTokens,
			CacheReadTokens:     ev.CacheReadTokens,
			BashCount:           ev.BashCount,
			FileModCount:        ev.FileModCount,
			GitCount:            ev.GitCount,
		})

		metrics.InputTokens += ev.InputTokens
		metrics.OutputTokens += ev.OutputTokens
		metrics.CacheCreationTokens += ev.CacheCreationTokens
		metrics.CacheReadTokens += ev.CacheReadTokens
		metrics.BashCount += ev.BashCount
		metrics.FileModCount += ev.FileModCount
		metrics.GitCount += ev.GitCount
		metrics.EventCount++
	})
}

func appendTransitions(hegelDir string, metrics *UnifiedMetrics) error {
	path := filepath.Join(hegelDir, statesFileName)

	return forEachJSONLLine(path, func(line int, raw []byte) {
		var t Transition
		if err := json.Unmarshal(raw, &t); err != nil {
			logMalformedLine(path, line, err)
			return
		}
		metrics.Transitions = append(metrics.Transitions, t)
		metrics.EventCount++
	})
}

func appendCommandLog(hegelDir string, metrics *UnifiedMetrics) error {
	path := filepath.Join(hegelDir, commandLogFileName)

	return forEachJSONLLine(path, func(line int, raw []byte) {
		var c GitCommit
		if err := json.Unmarshal(raw, &c); err != nil {
			logMalformedLine(path, line, err)
			return
		}
		if c.Hash != "" {
			metrics.GitCommits = append(metrics.GitCommits, c)
			metrics.GitCount++
		}
		metrics.EventCount++
	})
}

// appendArchives folds pre-aggregated completed-workflow summaries into
// metrics. Archive files are tolerant of the same per-line/per-file
// failures as the live log: a bad archive degrades coverage, it never
// aborts the read.
func appendArchives(hegelDir string, metrics *UnifiedMetrics) {
	dir := filepath.Join(hegelDir, archivesDirName)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable archive", logfields.File(path), logfields.Error(err))
			continue
		}

		var archived UnifiedMetrics
		if err := json.Unmarshal(data, &archived); err != nil {
			slog.Warn("skipping malformed archive", logfields.File(path), logfields.Error(err))
			continue
		}

		metrics.InputTokens += archived.InputTokens
		metrics.OutputTokens += archived.OutputTokens
		metrics.CacheCreationTokens += archived.CacheCreationTokens
		metrics.CacheReadTokens += archived.CacheReadTokens
		metrics.BashCount += archived.BashCount
		metrics.FileModCount += archived.FileModCount
		metrics.GitCount += archived.GitCount
		metrics.EventCount += archived.EventCount
		metrics.PhaseMetrics = append(metrics.PhaseMetrics, archived.PhaseMetrics...)
		metrics.Transitions = append(metrics.Transitions, archived.Transitions...)
		metrics.GitCommits = append(metrics.GitCommits, archived.GitCommits...)
	}
}

// forEachJSONLLine scans path line by line, invoking fn for every non-blank
// line. A missing file is not an error — most projects won't have all three
// logs. Read/scan failures on an existing file are classified scan errors.
func forEachJSONLLine(path string, fn func(line int, raw []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return hgerrors.WrapError(err, hgerrors.CategoryScan, "open jsonl log").
			WithContext("path", path).Build()
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		fn(lineNum, line)
	}

	if err := scanner.Err(); err != nil {
		return hgerrors.WrapError(err, hgerrors.CategoryScan, "scan jsonl log").
			WithContext("path", path).Build()
	}

	return nil
}

func logMalformedLine(path string, line int, err error) {
	slog.Warn("skipping malformed jsonl line",
		logfields.File(path), logfields.Line(line), logfields.Error(err))
}
