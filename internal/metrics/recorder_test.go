package metrics

import "time"

type testRecorder struct {
	scans        int
	discovered   int
	scanErrors   int
	requestDur   map[string]int
	cacheHits    map[string]int
	cacheMisses  map[string]int
	buildResults map[string]map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		requestDur:   map[string]int{},
		cacheHits:    map[string]int{},
		cacheMisses:  map[string]int{},
		buildResults: map[string]map[ResultLabel]int{},
	}
}

func (t *testRecorder) ObserveScanDuration(time.Duration)      { t.scans++ }
func (t *testRecorder) SetProjectsDiscovered(n int)            { t.discovered = n }
func (t *testRecorder) IncScanError()                          { t.scanErrors++ }
func (t *testRecorder) ObserveCacheLoadDuration(time.Duration) {}
func (t *testRecorder) IncCacheLoadResult(string)              {}
func (t *testRecorder) IncCacheSaveError()                     {}
func (t *testRecorder) ObserveRequestDuration(kind string, _ time.Duration) {
	t.requestDur[kind]++
}
func (t *testRecorder) IncResponseCacheHit(kind string)  { t.cacheHits[kind]++ }
func (t *testRecorder) IncResponseCacheMiss(kind string) { t.cacheMisses[kind]++ }
func (t *testRecorder) IncBuildResult(kind string, result ResultLabel) {
	m, ok := t.buildResults[kind]
	if !ok {
		m = map[ResultLabel]int{}
		t.buildResults[kind] = m
	}
	m[result]++
}
func (t *testRecorder) SetInFlightBuilds(int) {}
