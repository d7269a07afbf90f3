package metrics

import "time"

// ResultLabel enumerates cache-miss build outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultError   ResultLabel = "error"
	ResultPanic   ResultLabel = "panic"
)

// Recorder defines observability hooks for discovery scans, the persistent
// cache, and the worker pool's response cache. Implementations may forward to
// Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using NoopRecorder (allowing optional injection).
type Recorder interface {
	// ObserveScanDuration records how long a full filesystem scan took.
	ObserveScanDuration(d time.Duration)
	// SetProjectsDiscovered records the number of projects found by the last scan.
	SetProjectsDiscovered(n int)
	// IncScanError increments the count of per-root scan errors.
	IncScanError()

	// ObserveCacheLoadDuration records persistent cache load latency.
	ObserveCacheLoadDuration(d time.Duration)
	// IncCacheLoadResult increments persistent cache load outcomes (hit/miss/corrupt).
	IncCacheLoadResult(outcome string)
	// IncCacheSaveError increments persistent cache save failures.
	IncCacheSaveError()

	// ObserveRequestDuration records DataRequest handling latency by request kind.
	ObserveRequestDuration(kind string, d time.Duration)
	// IncResponseCacheHit increments response cache hits for a key kind.
	IncResponseCacheHit(kind string)
	// IncResponseCacheMiss increments response cache misses for a key kind.
	IncResponseCacheMiss(kind string)
	// IncBuildResult increments background-build outcomes for a key kind.
	IncBuildResult(kind string, result ResultLabel)
	// SetInFlightBuilds records the current number of coalesced in-flight builds.
	SetInFlightBuilds(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveScanDuration(time.Duration)            {}
func (NoopRecorder) SetProjectsDiscovered(int)                    {}
func (NoopRecorder) IncScanError()                                {}
func (NoopRecorder) ObserveCacheLoadDuration(time.Duration)       {}
func (NoopRecorder) IncCacheLoadResult(string)                    {}
func (NoopRecorder) IncCacheSaveError()                           {}
func (NoopRecorder) ObserveRequestDuration(string, time.Duration) {}
func (NoopRecorder) IncResponseCacheHit(string)                   {}
func (NoopRecorder) IncResponseCacheMiss(string)                  {}
func (NoopRecorder) IncBuildResult(string, ResultLabel)           {}
func (NoopRecorder) SetInFlightBuilds(int)                        {}
