package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once sync.Once

	scanDuration       prom.Histogram
	projectsDiscovered prom.Gauge
	scanErrors         prom.Counter

	cacheLoadDuration prom.Histogram
	cacheLoadResult   *prom.CounterVec
	cacheSaveErrors   prom.Counter

	requestDuration  *prom.HistogramVec
	responseCacheHit *prom.CounterVec
	responseCacheMs  *prom.CounterVec
	buildResult      *prom.CounterVec
	inFlightBuilds   prom.Gauge
}

// NewPrometheusRecorder constructs a fresh set of Prometheus metrics and
// registers them with reg (a new private registry when reg is nil). Each call
// registers new collectors, so calling it twice with the same registry panics
// on duplicate registration.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.scanDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "hegelpm",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a full filesystem discovery scan",
			Buckets:   prom.DefBuckets,
		})
		pr.projectsDiscovered = prom.NewGauge(prom.GaugeOpts{
			Namespace: "hegelpm",
			Name:      "projects_discovered",
			Help:      "Number of projects found by the last scan",
		})
		pr.scanErrors = prom.NewCounter(prom.CounterOpts{
			Namespace: "hegelpm",
			Name:      "scan_errors_total",
			Help:      "Per-root scan errors",
		})
		pr.cacheLoadDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "hegelpm",
			Name:      "cache_load_duration_seconds",
			Help:      "Duration of persistent cache loads",
			Buckets:   prom.DefBuckets,
		})
		pr.cacheLoadResult = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hegelpm",
			Name:      "cache_load_results_total",
			Help:      "Persistent cache load outcomes (hit, miss, corrupt)",
		}, []string{"outcome"})
		pr.cacheSaveErrors = prom.NewCounter(prom.CounterOpts{
			Namespace: "hegelpm",
			Name:      "cache_save_errors_total",
			Help:      "Persistent cache save failures",
		})
		pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "hegelpm",
			Name:      "request_duration_seconds",
			Help:      "DataRequest handling latency by request kind",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"})
		pr.responseCacheHit = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hegelpm",
			Name:      "response_cache_hits_total",
			Help:      "Response cache hits by key kind",
		}, []string{"kind"})
		pr.responseCacheMs = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hegelpm",
			Name:      "response_cache_misses_total",
			Help:      "Response cache misses by key kind",
		}, []string{"kind"})
		pr.buildResult = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hegelpm",
			Name:      "build_results_total",
			Help:      "Background build outcomes by key kind",
		}, []string{"kind", "result"})
		pr.inFlightBuilds = prom.NewGauge(prom.GaugeOpts{
			Namespace: "hegelpm",
			Name:      "in_flight_builds",
			Help:      "Coalesced in-flight background builds",
		})
		reg.MustRegister(
			pr.scanDuration, pr.projectsDiscovered, pr.scanErrors,
			pr.cacheLoadDuration, pr.cacheLoadResult, pr.cacheSaveErrors,
			pr.requestDuration, pr.responseCacheHit, pr.responseCacheMs,
			pr.buildResult, pr.inFlightBuilds,
		)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveScanDuration(d time.Duration) {
	if p == nil || p.scanDuration == nil {
		return
	}
	p.scanDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetProjectsDiscovered(n int) {
	if p == nil || p.projectsDiscovered == nil {
		return
	}
	p.projectsDiscovered.Set(float64(n))
}

func (p *PrometheusRecorder) IncScanError() {
	if p == nil || p.scanErrors == nil {
		return
	}
	p.scanErrors.Inc()
}

func (p *PrometheusRecorder) ObserveCacheLoadDuration(d time.Duration) {
	if p == nil || p.cacheLoadDuration == nil {
		return
	}
	p.cacheLoadDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheLoadResult(outcome string) {
	if p == nil || p.cacheLoadResult == nil {
		return
	}
	p.cacheLoadResult.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncCacheSaveError() {
	if p == nil || p.cacheSaveErrors == nil {
		return
	}
	p.cacheSaveErrors.Inc()
}

func (p *PrometheusRecorder) ObserveRequestDuration(kind string, d time.Duration) {
	if p == nil || p.requestDuration == nil {
		return
	}
	p.requestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncResponseCacheHit(kind string) {
	if p == nil || p.responseCacheHit == nil {
		return
	}
	p.responseCacheHit.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncResponseCacheMiss(kind string) {
	if p == nil || p.responseCacheMs == nil {
		return
	}
	p.responseCacheMs.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncBuildResult(kind string, result ResultLabel) {
	if p == nil || p.buildResult == nil {
		return
	}
	p.buildResult.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) SetInFlightBuilds(n int) {
	if p == nil || p.inFlightBuilds == nil {
		return
	}
	p.inFlightBuilds.Set(float64(n))
}
