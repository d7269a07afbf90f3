package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveScanDuration(150 * time.Millisecond)
	pr.SetProjectsDiscovered(3)
	pr.IncCacheLoadResult("hit")
	pr.ObserveRequestDuration("project_metrics", 2*time.Millisecond)
	pr.IncResponseCacheHit("projects_list")
	pr.IncBuildResult("project_metrics:alpha", ResultSuccess)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveScanDuration(time.Second)
	pr.SetProjectsDiscovered(1)
	pr.IncScanError()
	pr.IncCacheSaveError()
	pr.SetInFlightBuilds(2)
}
