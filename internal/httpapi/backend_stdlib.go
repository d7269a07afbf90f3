//go:build backend_stdlib

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dialecticianai/hegel-pm-sub000/internal/config"
	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
	"github.com/dialecticianai/hegel-pm-sub000/internal/workerpool"
)

// StdlibBackend implements Backend using only net/http.
type StdlibBackend struct {
	adapter *hgerrors.HTTPErrorAdapter
}

// NewStdlibBackend constructs the net/http-based HttpBackend.
func NewStdlibBackend() *StdlibBackend {
	return &StdlibBackend{adapter: hgerrors.NewHTTPErrorAdapter(nil)}
}

// NewDefaultBackend returns the backend selected by this binary's build
// tags. Exactly one of the backend_stdlib/backend_echo-tagged files
// provides this function.
func NewDefaultBackend() Backend {
	return NewStdlibBackend()
}

// Run starts listening on cfg.ListenAddr and blocks until the server stops.
func (b *StdlibBackend) Run(requests chan<- any, cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects", b.handleProjects(requests))
	mux.HandleFunc("/api/all-projects", b.handleAllProjects(requests))
	mux.HandleFunc("/api/projects/", b.handleProjectMetricsOrNotFound(requests))
	mux.HandleFunc("/", b.handleStatic(cfg.StaticDir))

	handler := chain(slog.Default(), b.adapter)(mux)

	slog.Info("http backend listening", logfields.URL("http://"+cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, handler)
}

func (b *StdlibBackend) handleProjects(requests chan<- any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan workerpool.Result, 1)
		requests <- workerpool.GetProjects{Reply: reply}
		b.writeReply(w, r, reply)
	}
}

func (b *StdlibBackend) handleAllProjects(requests chan<- any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan workerpool.Result, 1)
		requests <- workerpool.GetAllProjects{Reply: reply}
		b.writeReply(w, r, reply)
	}
}

func (b *StdlibBackend) handleProjectMetricsOrNotFound(requests chan<- any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := projectNameFromMetricsPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		reply := make(chan workerpool.Result, 1)
		requests <- workerpool.GetProjectMetrics{Name: name, Reply: reply}
		b.writeReply(w, r, reply)
	}
}

func (b *StdlibBackend) handleStatic(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, ok := resolveStaticPath(staticDir, r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

func (b *StdlibBackend) writeReply(w http.ResponseWriter, r *http.Request, reply chan workerpool.Result) {
	select {
	case result := <-reply:
		if result.Err != nil {
			b.adapter.WriteErrorResponse(w, r, result.Err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(result.Body)
	case <-time.After(replyTimeout):
		b.adapter.WriteErrorResponse(w, r, hgerrors.InternalError("worker pool did not respond in time").Build())
	}
}
