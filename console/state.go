// Package console implements the client-side core of the batchtop
// operations console: resource caches kept in sync with the platform on
// independent cadences, trend aggregation over execution records, the
// scheduled-job edit workflow, single-slot notifications, and the command
// dispatch table that drives it all. Rendering is behind interfaces; the
// package has no terminal dependency.
package console

import (
	"sync"

	"github.com/teranos/batchtop/api"
)

// State is the application-state object holding the resource caches.
// Every cache is a full-replacement snapshot: a successful fetch swaps the
// whole slice under the lock, a failed fetch leaves the previous snapshot
// visible. There is one writer per resource (the corresponding fetcher);
// readers get the current snapshot and must not modify it.
type State struct {
	mu          sync.RWMutex
	jobs        []api.Job
	pipelines   []api.Pipeline
	executions  []api.Execution
	scheduled   []api.ScheduledJob
	metrics     api.MetricsSnapshot
	haveMetrics bool
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{}
}

// SetJobs replaces the jobs cache.
func (s *State) SetJobs(jobs []api.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = jobs
}

// Jobs returns the current jobs snapshot.
func (s *State) Jobs() []api.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs
}

// SetPipelines replaces the pipelines cache.
func (s *State) SetPipelines(pipelines []api.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines = pipelines
}

// Pipelines returns the current pipelines snapshot.
func (s *State) Pipelines() []api.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipelines
}

// SetExecutions replaces the executions cache.
func (s *State) SetExecutions(executions []api.Execution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions = executions
}

// Executions returns the current executions snapshot, in server-assigned
// fetch order.
func (s *State) Executions() []api.Execution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.executions
}

// SetScheduledJobs replaces the scheduled-jobs cache.
func (s *State) SetScheduledJobs(scheduled []api.ScheduledJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = scheduled
}

// ScheduledJobs returns the current scheduled-jobs snapshot.
func (s *State) ScheduledJobs() []api.ScheduledJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduled
}

// FindScheduledJob looks up a scheduled job by ID in the current snapshot.
func (s *State) FindScheduledJob(id string) (api.ScheduledJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.scheduled {
		if job.ID == id {
			return job, true
		}
	}
	return api.ScheduledJob{}, false
}

// SetMetrics replaces the metrics snapshot.
func (s *State) SetMetrics(m api.MetricsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
	s.haveMetrics = true
}

// Metrics returns the latest metrics snapshot and whether one has arrived.
func (s *State) Metrics() (api.MetricsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics, s.haveMetrics
}

// JobNames returns the names in the jobs cache, in cache order.
func (s *State) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name)
	}
	return names
}

// PipelineNames returns the names in the pipelines cache, in cache order.
func (s *State) PipelineNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.pipelines))
	for _, p := range s.pipelines {
		names = append(names, p.Name)
	}
	return names
}
