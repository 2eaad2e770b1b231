package console

import "github.com/teranos/batchtop/api"

// Renderer is the external rendering collaborator. Implementations receive
// normalized view-models and own all presentation; the engine guarantees
// the cache replacement for a resource happens before the matching render
// call within one fetch.
type Renderer interface {
	RenderJobs(jobs []api.Job)
	RenderPipelines(pipelines []api.Pipeline)
	RenderExecutions(executions []api.Execution)
	RenderScheduledJobs(scheduled []api.ScheduledJob)
	RenderMetrics(m api.MetricsSnapshot)
	RenderTrend(series TrendSeries)
	RenderHistory(jobName string, executions []api.Execution)
}

// ToastSink displays transient notifications. The Notifier guarantees at
// most one toast is live at any instant: every ShowToast implicitly
// replaces the previous toast, and ClearToast retires the current one.
type ToastSink interface {
	ShowToast(t Toast)
	ClearToast()
}
