package workerpool

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dialecticianai/hegel-pm-sub000/internal/aggregator"
	"github.com/dialecticianai/hegel-pm-sub000/internal/discovery"
	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/hegelfmt"
	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
	"github.com/dialecticianai/hegel-pm-sub000/internal/metrics"
)

// Engine is the subset of *discovery.Engine the pool depends on. Accepting
// an interface keeps the pool testable without a real filesystem.
type Engine interface {
	GetProjects(forceRefresh bool) []discovery.DiscoveredProject
	FindProject(name string) (discovery.DiscoveredProject, error)
	LoadStatistics(name string) (*hegelfmt.UnifiedMetrics, error)
	RefreshProjects(names []string) []discovery.DiscoveredProject
}

// projectListEntry is the lightweight record served by GetProjects.
type projectListEntry struct {
	Name          string                  `json:"name"`
	WorkflowState *hegelfmt.WorkflowState `json:"workflow_state,omitempty"`
}

// Pool is the message-passing worker pool: one receiver goroutine serves
// Requests chan; cache hits are answered inline, cache misses spawn a
// background build goroutine. At most one build runs per cache key at a
// time — concurrent requests for the same missing key coalesce onto the
// same in-flight build.
type Pool struct {
	Requests chan any // GetProjects | GetProjectMetrics | GetAllProjects | RefreshCache

	engine   Engine
	cache    responseCache
	recorder metrics.Recorder

	mu       sync.Mutex
	inFlight map[string][]chan<- Result
}

// New constructs a Pool over engine. The caller must call Run in its own
// goroutine to start the receiver.
func New(engine Engine, recorder metrics.Recorder, queueDepth int) *Pool {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if queueDepth <= 0 {
		queueDepth = 256
	}

	return &Pool{
		Requests: make(chan any, queueDepth),
		engine:   engine,
		recorder: recorder,
		inFlight: make(map[string][]chan<- Result),
	}
}

// Run is the receiver loop. It never blocks on I/O: cache misses are always
// handed off to a spawned goroutine. Run returns when Requests is closed.
func (p *Pool) Run() {
	for req := range p.Requests {
		p.dispatch(req)
	}
}

// PreWarm builds the projects-list response in the background so the first
// real request is already served from cache.
func (p *Pool) PreWarm() {
	go p.buildProjectsList()
}

func (p *Pool) dispatch(req any) {
	switch r := req.(type) {
	case GetProjects:
		p.handleGetProjects(r)
	case GetProjectMetrics:
		p.handleGetProjectMetrics(r)
	case GetAllProjects:
		p.handleGetAllProjects(r)
	case RefreshCache:
		p.handleRefreshCache(r)
	default:
		slog.Warn("workerpool: unknown request type")
	}
}

func (p *Pool) handleGetProjects(r GetProjects) {
	if body, ok := p.cache.get(keyProjectsList); ok {
		p.recorder.IncResponseCacheHit(keyProjectsList)
		deliver(r.Reply, Result{Body: body})
		return
	}
	p.recorder.IncResponseCacheMiss(keyProjectsList)
	p.coalesce(keyProjectsList, r.Reply, p.buildProjectsList)
}

func (p *Pool) handleGetProjectMetrics(r GetProjectMetrics) {
	key := metricsKey(r.Name)
	if body, ok := p.cache.get(key); ok {
		p.recorder.IncResponseCacheHit("project_metrics")
		deliver(r.Reply, Result{Body: body})
		return
	}
	p.recorder.IncResponseCacheMiss("project_metrics")
	p.coalesce(key, r.Reply, func() { p.buildProjectMetrics(r.Name) })
}

func (p *Pool) handleGetAllProjects(r GetAllProjects) {
	if body, ok := p.cache.get(keyAllProjects); ok {
		p.recorder.IncResponseCacheHit(keyAllProjects)
		deliver(r.Reply, Result{Body: body})
		return
	}
	p.recorder.IncResponseCacheMiss(keyAllProjects)
	p.coalesce(keyAllProjects, r.Reply, p.buildAllProjects)
}

func (p *Pool) handleRefreshCache(r RefreshCache) {
	if r.ProjectName == nil {
		p.cache.clear()
		p.triggerRebuild(keyProjectsList, func() {
			p.engine.RefreshProjects(nil)
			p.buildProjectsList()
		})
		return
	}

	name := *r.ProjectName
	p.cache.delete(metricsKey(name))
	p.cache.delete(keyAllProjects)
	p.triggerRebuild(metricsKey(name), func() {
		p.engine.RefreshProjects([]string{name})
		p.buildProjectMetrics(name)
	})
}

// coalesce registers reply on the in-flight list for key. If this is the
// first waiter, it spawns build in the background; later callers attach to
// the same build instead of starting a second one.
func (p *Pool) coalesce(key string, reply chan<- Result, build func()) {
	p.mu.Lock()
	waiters, building := p.inFlight[key]
	p.inFlight[key] = append(waiters, reply)
	p.mu.Unlock()

	if !building {
		go p.runBuild(key, build)
	}
}

// triggerRebuild starts build for key unless a build is already in flight,
// using the same inFlight bookkeeping coalesce uses. This lets a
// refresh-triggered rebuild and a concurrent cache-miss request for the same
// key (e.g. GetProjectMetrics right after a RefreshCache) share one build
// instead of racing two independent ones; the cache-miss request's reply
// simply joins the waiter list coalesce already manages.
func (p *Pool) triggerRebuild(key string, build func()) {
	p.mu.Lock()
	_, building := p.inFlight[key]
	if !building {
		p.inFlight[key] = nil
	}
	p.mu.Unlock()

	if !building {
		go p.runBuild(key, build)
	}
}

// runBuild executes build, recovering from any panic so a single bad
// build task cannot take down the pool's receiver loop. A recovered panic
// is published as an error Result to every waiter registered for key.
func (p *Pool) runBuild(key string, build func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("workerpool: build task panicked", logfields.Error(fmt.Errorf("%v", r)))
			err := hgerrors.InternalError("build task panicked").WithContext("key", key).Build()
			p.publish(key, Result{Err: err})
		}
	}()
	build()
}

// publish stores a freshly built response, delivers it to every waiter
// registered for key, and clears the in-flight entry.
func (p *Pool) publish(key string, result Result) {
	if result.Err == nil {
		p.cache.put(key, result.Body)
	}

	p.mu.Lock()
	waiters := p.inFlight[key]
	delete(p.inFlight, key)
	p.mu.Unlock()

	for _, w := range waiters {
		deliver(w, result)
	}
}

func (p *Pool) buildProjectsList() {
	projects := p.engine.GetProjects(false)

	entries := make([]projectListEntry, 0, len(projects))
	for _, proj := range projects {
		entries = append(entries, projectListEntry{Name: proj.Name, WorkflowState: proj.WorkflowState})
	}

	body, err := json.Marshal(entries)
	if err != nil {
		slog.Error("workerpool: failed to marshal projects list", logfields.Error(err))
		p.publish(keyProjectsList, Result{Err: err})
		return
	}

	p.publish(keyProjectsList, Result{Body: body})
}

func (p *Pool) buildProjectMetrics(name string) {
	project, err := p.engine.FindProject(name)
	if err != nil {
		p.publish(metricsKey(name), Result{Err: ErrProjectNotFound})
		return
	}

	stats, err := p.engine.LoadStatistics(name)
	if err != nil {
		slog.Warn("workerpool: failed to load statistics", logfields.Project(name), logfields.Error(err))
		p.publish(metricsKey(name), Result{Err: err})
		return
	}

	info := aggregator.BuildProjectInfo(name, project.WorkflowState, *stats)

	body, err := json.Marshal(info)
	if err != nil {
		slog.Error("workerpool: failed to marshal project metrics", logfields.Project(name), logfields.Error(err))
		p.publish(metricsKey(name), Result{Err: err})
		return
	}

	p.publish(metricsKey(name), Result{Body: body})
}

func (p *Pool) buildAllProjects() {
	projects := p.engine.GetProjects(false)

	summaries := make([]aggregator.ProjectMetricsSummary, 0, len(projects))
	for _, proj := range projects {
		stats, err := p.engine.LoadStatistics(proj.Name)
		if err != nil {
			slog.Warn("workerpool: skipping project in aggregate", logfields.Project(proj.Name), logfields.Error(err))
			continue
		}
		info := aggregator.BuildProjectInfo(proj.Name, proj.WorkflowState, *stats)
		summaries = append(summaries, info.Summary)
	}

	aggregate := aggregator.BuildAllProjectsAggregate(summaries)

	body, err := json.Marshal(aggregate)
	if err != nil {
		slog.Error("workerpool: failed to marshal all-projects aggregate", logfields.Error(err))
		p.publish(keyAllProjects, Result{Err: err})
		return
	}

	p.publish(keyAllProjects, Result{Body: body})
}

// deliver writes result to reply without blocking forever if the caller has
// abandoned the request; a reasonably sized buffered channel on the caller
// side makes this send always succeed in practice, matching the "dropped
// reply channel cancels caller interest but in-progress builds still
// publish" contract.
func deliver(reply chan<- Result, result Result) {
	if reply == nil {
		return
	}
	defer func() {
		// A closed or nil reply channel means the caller is no longer
		// listening; the cache write above already happened so later
		// requesters still benefit.
		_ = recover()
	}()
	reply <- result
}
