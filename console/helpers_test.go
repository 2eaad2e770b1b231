package console

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/batchtop/api"
	batchtest "github.com/teranos/batchtop/internal/testing"
)

// recordingRenderer captures every view-model pushed by the engine.
type recordingRenderer struct {
	mu         sync.Mutex
	jobs       [][]api.Job
	pipelines  [][]api.Pipeline
	executions [][]api.Execution
	scheduled  [][]api.ScheduledJob
	metrics    []api.MetricsSnapshot
	trends     []TrendSeries
	history    map[string][]api.Execution
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{history: map[string][]api.Execution{}}
}

func (r *recordingRenderer) RenderJobs(jobs []api.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, jobs)
}

func (r *recordingRenderer) RenderPipelines(pipelines []api.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelines = append(r.pipelines, pipelines)
}

func (r *recordingRenderer) RenderExecutions(executions []api.Execution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions = append(r.executions, executions)
}

func (r *recordingRenderer) RenderScheduledJobs(scheduled []api.ScheduledJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, scheduled)
}

func (r *recordingRenderer) RenderMetrics(m api.MetricsSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
}

func (r *recordingRenderer) RenderTrend(series TrendSeries) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trends = append(r.trends, series)
}

func (r *recordingRenderer) RenderHistory(jobName string, executions []api.Execution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[jobName] = executions
}

func (r *recordingRenderer) lastJobs() []api.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.jobs) == 0 {
		return nil
	}
	return r.jobs[len(r.jobs)-1]
}

func (r *recordingRenderer) lastExecutions() []api.Execution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.executions) == 0 {
		return nil
	}
	return r.executions[len(r.executions)-1]
}

func (r *recordingRenderer) lastTrend() *TrendSeries {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.trends) == 0 {
		return nil
	}
	return &r.trends[len(r.trends)-1]
}

func (r *recordingRenderer) executionRenderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.executions)
}

func (r *recordingRenderer) trendCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trends)
}

// recordingToasts captures notifications.
type recordingToasts struct {
	mu      sync.Mutex
	shown   []Toast
	cleared int
}

func (s *recordingToasts) ShowToast(t Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, t)
}

func (s *recordingToasts) ClearToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
}

func (s *recordingToasts) last() *Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shown) == 0 {
		return nil
	}
	return &s.shown[len(s.shown)-1]
}

func (s *recordingToasts) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shown)
}

// newTestConsole wires a console to a fake platform with recording sinks
// and no post-trigger settle delay.
func newTestConsole(t *testing.T, p *batchtest.Platform) (*Console, *recordingRenderer, *recordingToasts) {
	t.Helper()

	client, err := api.NewClientWithHTTP(p.URL(), p.Server.Client(), zap.NewNop().Sugar())
	require.NoError(t, err)

	renderer := newRecordingRenderer()
	toasts := &recordingToasts{}
	c := New(context.Background(), Options{
		Client:      client,
		Renderer:    renderer,
		Toasts:      toasts,
		Logger:      zap.NewNop().Sugar(),
		SettleDelay: -1,
	})
	return c, renderer, toasts
}
