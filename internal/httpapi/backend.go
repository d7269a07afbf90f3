// Package httpapi is the thin protocol-agnostic HTTP serving layer. It
// translates incoming HTTP requests into workerpool request messages
// (GetProjects, GetProjectMetrics, GetAllProjects) and writes back whatever
// bytes the pool returns, performing no filesystem I/O on .hegel/ state
// itself. Exactly one Backend implementation is compiled into a given
// binary, selected with a build tag ("-tags backend_stdlib" or
// "-tags backend_echo"); see backend_guard_both.go and
// backend_guard_neither.go.
package httpapi

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dialecticianai/hegel-pm-sub000/internal/config"
)

// Backend is the one interface both implementations satisfy. Run blocks
// until the listener stops (or the process is asked to exit) and sends
// every translated request on requests.
type Backend interface {
	Run(requests chan<- any, cfg *config.Config) error
}

// replyTimeout bounds how long a handler waits for the pool before giving
// up and responding with an internal error; the pool itself has no
// per-request timeout, so this exists purely to protect the HTTP
// connection from a wedged pool.
const replyTimeout = 30 * time.Second

const indexFile = "index.html"

// resolveStaticPath maps an HTTP request path onto a file under staticDir,
// rejecting any path whose cleaned form would escape staticDir (e.g. via
// "../" components). The returned path is always inside staticDir.
func resolveStaticPath(staticDir, requestPath string) (string, bool) {
	rel := strings.TrimPrefix(requestPath, "/")
	if rel == "" {
		rel = indexFile
	}

	cleaned := filepath.Clean(rel)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", false
	}

	staticAbs, err := filepath.Abs(staticDir)
	if err != nil {
		return "", false
	}

	candidate := filepath.Join(staticAbs, cleaned)
	candidateAbs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}

	if candidateAbs != staticAbs && !strings.HasPrefix(candidateAbs, staticAbs+string(filepath.Separator)) {
		return "", false
	}

	return candidateAbs, true
}

// projectNameFromMetricsPath extracts {name} from "/api/projects/{name}/metrics".
func projectNameFromMetricsPath(path string) (string, bool) {
	const prefix = "/api/projects/"
	const suffix = "/metrics"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}

	name := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}

	return name, true
}
