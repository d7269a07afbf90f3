// Package logfields provides canonical log field names and helpers for structured logging in hegelpm.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
// These are used for structured logging with slog.
const (
	KeyProject     = "project"
	KeyProjectPath = "project_path"
	KeyHegelDir    = "hegel_dir"
	KeyRoot        = "root"
	KeyDepth       = "depth"
	KeyWorkflowID  = "workflow_id"
	KeyCacheKey    = "cache_key"
	KeyCacheFile   = "cache_file"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyWorker      = "worker"
	KeyMethod      = "method"
	KeyUserAgent   = "user_agent"
	KeyRemoteAddr  = "remote_addr"
	KeyRequestID   = "request_id"
	KeyStatus      = "status"
	KeyResponseSz  = "response_size"
	KeyBackend     = "backend"
	KeyContentLen  = "content_length"
	KeyName        = "name"
	KeyURL         = "url"
	KeyLine        = "line"
	KeyCommand     = "command"
)

// Project returns a slog.Attr for a project name.
func Project(name string) slog.Attr { return slog.String(KeyProject, name) }

// ProjectPath returns a slog.Attr for a project's absolute path.
func ProjectPath(p string) slog.Attr { return slog.String(KeyProjectPath, p) }

// HegelDir returns a slog.Attr for a .hegel directory path.
func HegelDir(p string) slog.Attr { return slog.String(KeyHegelDir, p) }

// Root returns a slog.Attr for a configured discovery root.
func Root(p string) slog.Attr { return slog.String(KeyRoot, p) }

// Depth returns a slog.Attr for a walk depth.
func Depth(d int) slog.Attr { return slog.Int(KeyDepth, d) }

// WorkflowID returns a slog.Attr for a workflow identifier.
func WorkflowID(id string) slog.Attr { return slog.String(KeyWorkflowID, id) }

// CacheKey returns a slog.Attr for a response cache key.
func CacheKey(key string) slog.Attr { return slog.String(KeyCacheKey, key) }

// CacheFile returns a slog.Attr for a persistent cache file path.
func CacheFile(p string) slog.Attr { return slog.String(KeyCacheFile, p) }

// Stage returns a slog.Attr for stage name.
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }

// DurationMS returns a slog.Attr for duration in ms.
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Path returns a slog.Attr for a file path.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// File returns a slog.Attr for a file name.
func File(f string) slog.Attr { return slog.String(KeyFile, f) }

// Worker returns a slog.Attr for a worker ID.
func Worker(id string) slog.Attr { return slog.String(KeyWorker, id) }

// Method returns a slog.Attr for an HTTP method.
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }

// UserAgent returns a slog.Attr for a user agent string.
func UserAgent(ua string) slog.Attr { return slog.String(KeyUserAgent, ua) }

// RemoteAddr returns a slog.Attr for a remote address.
func RemoteAddr(a string) slog.Attr { return slog.String(KeyRemoteAddr, a) }

// RequestID returns a slog.Attr for a request ID.
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

// Status returns a slog.Attr for an HTTP status code.
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }

// ResponseSize returns a slog.Attr for a response size in bytes.
func ResponseSize(sz int) slog.Attr { return slog.Int(KeyResponseSz, sz) }

// Backend returns a slog.Attr for the selected HTTP backend implementation.
func Backend(name string) slog.Attr { return slog.String(KeyBackend, name) }

// ContentLength returns a slog.Attr for content length in bytes.
func ContentLength(cl int64) slog.Attr { return slog.Int64(KeyContentLen, cl) }

// Name returns a slog.Attr for a generic name field.
func Name(n string) slog.Attr { return slog.String(KeyName, n) }

// URL returns a slog.Attr for a URL field.
func URL(u string) slog.Attr { return slog.String(KeyURL, u) }

// Line returns a slog.Attr for a source line number (JSONL parse failures).
func Line(n int) slog.Attr { return slog.Int(KeyLine, n) }

// Command returns a slog.Attr for an external command name.
func Command(cmd string) slog.Attr { return slog.String(KeyCommand, cmd) }

// Error returns a slog.Attr for an error, or an empty string if nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
