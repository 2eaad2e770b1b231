// Package testing provides shared test helpers: a scripted in-process
// stand-in for the batch platform's REST surface.
package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/teranos/batchtop/api"
)

// Platform is a fake batch platform over httptest. State is mutated
// directly by tests; request counts per path support assertions about
// what the console fetched.
type Platform struct {
	t      *testing.T
	Server *httptest.Server

	mu            sync.Mutex
	jobs          []api.Job
	pipelines     []api.Pipeline
	executions    []api.Execution
	scheduled     []api.ScheduledJob
	metrics       api.MetricsSnapshot
	logs          map[string][]byte
	history       map[string][]api.Execution
	requests      map[string]int
	failAll       bool
	triggerResult *api.ActionResult
	saveResult    *api.ActionResult
	deleteResult  *api.ActionResult
	lastSaved     *api.ScheduledJob
}

// NewPlatform starts a fake platform. Cleanup is registered on t.
func NewPlatform(t *testing.T) *Platform {
	t.Helper()

	p := &Platform{
		t:        t,
		logs:     map[string][]byte{},
		history:  map[string][]api.Execution{},
		requests: map[string]int{},
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.Server.Close)
	return p
}

// URL returns the platform base URL.
func (p *Platform) URL() string {
	return p.Server.URL
}

// SetJobs replaces the served jobs.
func (p *Platform) SetJobs(jobs ...api.Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = jobs
}

// SetPipelines replaces the served pipelines.
func (p *Platform) SetPipelines(pipelines ...api.Pipeline) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pipelines = pipelines
}

// SetExecutions replaces the served executions.
func (p *Platform) SetExecutions(executions ...api.Execution) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.executions = executions
}

// SetScheduledJobs replaces the served scheduled jobs.
func (p *Platform) SetScheduledJobs(scheduled ...api.ScheduledJob) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scheduled = scheduled
}

// SetMetrics replaces the served metrics snapshot.
func (p *Platform) SetMetrics(m api.MetricsSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = m
}

// SetLog registers a log artifact for an execution ID.
func (p *Platform) SetLog(executionID string, content []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs[executionID] = content
}

// SetHistory registers the history served for a job name.
func (p *Platform) SetHistory(jobName string, executions ...api.Execution) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history[jobName] = executions
}

// FailAll makes every request answer 500 until called with false.
func (p *Platform) FailAll(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failAll = fail
}

// SetTriggerResult scripts the response for trigger endpoints.
func (p *Platform) SetTriggerResult(r api.ActionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggerResult = &r
}

// SetSaveResult scripts the response for scheduled-job upserts.
func (p *Platform) SetSaveResult(r api.ActionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveResult = &r
}

// SetDeleteResult scripts the response for scheduled-job deletes.
func (p *Platform) SetDeleteResult(r api.ActionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteResult = &r
}

// Requests returns how many requests hit the given path.
func (p *Platform) Requests(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[path]
}

// LastSaved returns the body of the most recent scheduled-job upsert.
func (p *Platform) LastSaved() *api.ScheduledJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSaved
}

func (p *Platform) handle(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests[r.URL.Path]++
	failAll := p.failAll
	p.mu.Unlock()

	if failAll {
		http.Error(w, "scripted failure", http.StatusInternalServerError)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/api/jobs" && r.Method == http.MethodGet:
		p.writeJSON(w, p.snapshotJobs())
	case path == "/api/pipelines" && r.Method == http.MethodGet:
		p.writeJSON(w, p.snapshotPipelines())
	case path == "/api/executions" && r.Method == http.MethodGet:
		p.writeJSON(w, p.snapshotExecutions())
	case path == "/api/metrics" && r.Method == http.MethodGet:
		p.mu.Lock()
		m := p.metrics
		p.mu.Unlock()
		p.writeJSON(w, m)
	case path == "/api/scheduled-jobs" && r.Method == http.MethodGet:
		p.writeJSON(w, p.snapshotScheduled())
	case path == "/api/scheduled-jobs" && r.Method == http.MethodPost:
		var job api.ScheduledJob
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			p.writeJSON(w, api.ActionResult{Success: false, Error: "malformed body"})
			return
		}
		p.mu.Lock()
		p.lastSaved = &job
		result := valueOr(p.saveResult, api.ActionResult{Success: true})
		p.mu.Unlock()
		p.writeJSON(w, result)
	case strings.HasPrefix(path, "/api/scheduled-jobs/") && r.Method == http.MethodDelete:
		p.mu.Lock()
		result := valueOr(p.deleteResult, api.ActionResult{Success: true})
		p.mu.Unlock()
		p.writeJSON(w, result)
	case strings.HasPrefix(path, "/api/jobs/") && strings.HasSuffix(path, "/trigger") && r.Method == http.MethodPost:
		p.mu.Lock()
		result := valueOr(p.triggerResult, api.ActionResult{Success: true})
		p.mu.Unlock()
		p.writeJSON(w, result)
	case strings.HasPrefix(path, "/api/pipelines/") && strings.HasSuffix(path, "/trigger") && r.Method == http.MethodPost:
		p.mu.Lock()
		result := valueOr(p.triggerResult, api.ActionResult{Success: true})
		p.mu.Unlock()
		p.writeJSON(w, result)
	case strings.HasPrefix(path, "/api/jobs/") && strings.HasSuffix(path, "/history") && r.Method == http.MethodGet:
		name := strings.TrimSuffix(strings.TrimPrefix(path, "/api/jobs/"), "/history")
		p.mu.Lock()
		executions := p.history[name]
		p.mu.Unlock()
		if executions == nil {
			executions = []api.Execution{}
		}
		p.writeJSON(w, executions)
	case strings.HasPrefix(path, "/api/executions/") && strings.HasSuffix(path, "/log") && r.Method == http.MethodGet:
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/executions/"), "/log")
		p.mu.Lock()
		content, ok := p.logs[id]
		p.mu.Unlock()
		if !ok {
			http.Error(w, "log not available", http.StatusNotFound)
			return
		}
		w.Write(content)
	default:
		http.NotFound(w, r)
	}
}

func (p *Platform) snapshotJobs() []api.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.jobs == nil {
		return []api.Job{}
	}
	return p.jobs
}

func (p *Platform) snapshotPipelines() []api.Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pipelines == nil {
		return []api.Pipeline{}
	}
	return p.pipelines
}

func (p *Platform) snapshotExecutions() []api.Execution {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.executions == nil {
		return []api.Execution{}
	}
	return p.executions
}

func (p *Platform) snapshotScheduled() []api.ScheduledJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scheduled == nil {
		return []api.ScheduledJob{}
	}
	return p.scheduled
}

func (p *Platform) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		p.t.Errorf("failed to encode response: %v", err)
	}
}

func valueOr(scripted *api.ActionResult, fallback api.ActionResult) api.ActionResult {
	if scripted != nil {
		return *scripted
	}
	return fallback
}
