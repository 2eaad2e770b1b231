package console

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/batchtop/api"
	"github.com/teranos/batchtop/errors"
)

// After a trigger the engine needs a beat to register the new execution
// before the follow-up refetch lands.
const defaultSettleDelay = 500 * time.Millisecond

// Options configures a Console.
type Options struct {
	Client   *api.Client
	Renderer Renderer
	Toasts   ToastSink
	Logger   *zap.SugaredLogger

	// Confirm is invoked before destructive actions (scheduled-job
	// delete); returning false aborts. Nil means always confirmed.
	Confirm func(prompt string) bool

	// PersistInterval, when set, durably records an operator-chosen
	// refresh interval (seconds). Persistence failures are logged, never
	// surfaced as toasts.
	PersistInterval func(seconds int) error

	// SettleDelay overrides the post-trigger settle delay. Tests set it
	// to a negative value to disable the wait; zero means the default.
	SettleDelay time.Duration
}

// Console is the top-level controller: it owns the application state, the
// poll scheduler, the notification center, and the schedule edit workflow,
// and funnels every user action through its methods.
type Console struct {
	client   *api.Client
	state    *State
	renderer Renderer
	notifier *Notifier
	poller   *Poller
	log      *zap.SugaredLogger

	confirm         func(prompt string) bool
	persistInterval func(seconds int) error
	settleDelay     time.Duration

	mu             sync.Mutex
	jobQuery       string
	pipelineQuery  string
	executionQuery string
	trendJob       string
	form           *ScheduleForm
}

// New creates a console. Call Start to launch the initial fetches and the
// poll timers.
func New(ctx context.Context, opts Options) *Console {
	settle := opts.SettleDelay
	if settle == 0 {
		settle = defaultSettleDelay
	} else if settle < 0 {
		settle = 0
	}

	c := &Console{
		client:          opts.Client,
		state:           NewState(),
		renderer:        opts.Renderer,
		notifier:        NewNotifier(opts.Toasts),
		log:             opts.Logger,
		confirm:         opts.Confirm,
		persistInterval: opts.PersistInterval,
		settleDelay:     settle,
		trendJob:        TrendAllJobs,
	}
	c.poller = NewPoller(ctx,
		func(ctx context.Context) { c.RefreshMetrics(ctx) },
		func(ctx context.Context) {
			// The trend recomputes even when the fetch fails, from the
			// retained last-known-good snapshot.
			c.RefreshExecutions(ctx)
			c.renderTrend()
		},
		opts.Logger)
	return c
}

// State exposes the application state for render wiring and tests.
func (c *Console) State() *State {
	return c.state
}

// Notifier exposes the notification center.
func (c *Console) Notifier() *Notifier {
	return c.notifier
}

// Poller exposes the poll scheduler.
func (c *Console) Poller() *Poller {
	return c.poller
}

// Start launches the initial parallel fetch of all five resources and
// starts the poll timers at the given interval. Fetches complete in any
// order; the initial trend series is pushed as soon as executions resolve.
// The returned function blocks until the initial fetches settle, for
// callers that want a fully painted first view.
func (c *Console) Start(ctx context.Context, interval time.Duration) func() {
	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		c.RefreshJobs(ctx)
	}()
	go func() {
		defer wg.Done()
		c.RefreshPipelines(ctx)
	}()
	go func() {
		defer wg.Done()
		c.RefreshExecutions(ctx)
		c.renderTrend()
	}()
	go func() {
		defer wg.Done()
		c.RefreshMetrics(ctx)
	}()
	go func() {
		defer wg.Done()
		c.RefreshScheduledJobs(ctx)
	}()

	c.poller.Start(interval)
	return wg.Wait
}

// Stop halts the poll timers. In-flight fetches still land and overwrite
// their caches when they resolve.
func (c *Console) Stop() {
	c.poller.Stop()
}

// SetRefreshInterval reconfigures both poll timers from an operator-chosen
// interval in seconds and persists the choice when a persistence hook is
// wired. The metrics timer runs at the interval; the trend timer is
// floored at 5 seconds.
func (c *Console) SetRefreshInterval(seconds int) error {
	if seconds <= 0 {
		err := errors.NewValidationError("refresh interval must be positive, got %d", seconds)
		c.notifier.Show(fmt.Sprintf("Invalid refresh interval: %d", seconds), SeverityError)
		return err
	}

	c.poller.Reschedule(time.Duration(seconds) * time.Second)
	c.notifier.Show(fmt.Sprintf("Refresh interval updated to %d seconds", seconds), SeveritySuccess)

	if c.persistInterval != nil {
		if err := c.persistInterval(seconds); err != nil {
			c.log.Warnw("Failed to persist refresh interval", "seconds", seconds, "error", err)
		}
	}
	return nil
}

// TriggerJob starts an ad hoc run of a job and, on success, refetches
// executions and metrics after the settle delay.
func (c *Console) TriggerJob(ctx context.Context, jobName string) error {
	result, err := c.client.TriggerJob(ctx, jobName)
	if err != nil {
		c.notifier.Show("Failed to trigger job: "+err.Error(), SeverityError)
		return err
	}
	if !result.Success {
		c.notifier.Show("Failed to trigger job: "+result.FailureText(), SeverityError)
		return errors.NewServerRejection(result.FailureText())
	}

	message := fmt.Sprintf("Job '%s' triggered successfully!", jobName)
	if result.ExecutionID != "" {
		message = fmt.Sprintf("Job '%s' triggered successfully! Execution ID: %s", jobName, result.ExecutionID)
	}
	c.notifier.Show(message, SeveritySuccess)

	c.refetchAfterAction(ctx)
	return nil
}

// TriggerPipeline starts an ad hoc run of a pipeline with the same
// success/failure policy as TriggerJob.
func (c *Console) TriggerPipeline(ctx context.Context, pipelineName string) error {
	result, err := c.client.TriggerPipeline(ctx, pipelineName)
	if err != nil {
		c.notifier.Show("Failed to trigger pipeline: "+err.Error(), SeverityError)
		return err
	}
	if !result.Success {
		c.notifier.Show("Failed to trigger pipeline: "+result.FailureText(), SeverityError)
		return errors.NewServerRejection(result.FailureText())
	}

	c.notifier.Show(fmt.Sprintf("Pipeline '%s' triggered successfully!", pipelineName), SeveritySuccess)

	c.refetchAfterAction(ctx)
	return nil
}

// DownloadLog fetches the log artifact for a terminal execution and writes
// it to execution-<id>.log in the working directory.
func (c *Console) DownloadLog(ctx context.Context, executionID string) error {
	data, err := c.client.ExecutionLog(ctx, executionID)
	if errors.Is(err, errors.ErrLogUnavailable) {
		c.notifier.Show("Log file not available or has expired", SeverityError)
		return err
	}
	if err != nil {
		c.notifier.Show("Failed to download log: "+err.Error(), SeverityError)
		return err
	}

	path := fmt.Sprintf("execution-%s.log", executionID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.notifier.Show("Failed to download log: "+err.Error(), SeverityError)
		return errors.Wrapf(err, "failed to write %s", path)
	}

	c.notifier.Show(fmt.Sprintf("Log file for execution %s downloaded successfully!", executionID), SeveritySuccess)
	return nil
}

// ShowHistory fetches and renders the execution history of one job. This
// is a user-initiated read, so failures surface as toasts.
func (c *Console) ShowHistory(ctx context.Context, jobName string) error {
	executions, err := c.client.JobHistory(ctx, jobName)
	if err != nil {
		c.notifier.Show("Failed to fetch job history: "+err.Error(), SeverityError)
		return err
	}
	c.renderer.RenderHistory(jobName, executions)
	return nil
}

// SetJobQuery updates the jobs search query and re-renders from the cache.
func (c *Console) SetJobQuery(query string) {
	c.mu.Lock()
	c.jobQuery = query
	c.mu.Unlock()
	c.renderer.RenderJobs(FilterJobs(c.state.Jobs(), query))
}

// SetPipelineQuery updates the pipelines search query and re-renders.
func (c *Console) SetPipelineQuery(query string) {
	c.mu.Lock()
	c.pipelineQuery = query
	c.mu.Unlock()
	c.renderer.RenderPipelines(FilterPipelines(c.state.Pipelines(), query))
}

// SetExecutionQuery updates the executions search query and re-renders.
func (c *Console) SetExecutionQuery(query string) {
	c.mu.Lock()
	c.executionQuery = query
	c.mu.Unlock()
	c.renderer.RenderExecutions(VisibleExecutions(c.state.Executions(), query))
}

// SetTrendJob switches the trend selector between TrendAllJobs and a
// specific job name, and recomputes the series from the current cache.
func (c *Console) SetTrendJob(jobName string) {
	c.mu.Lock()
	c.trendJob = jobName
	c.mu.Unlock()
	c.renderTrend()
}

// TrendJob returns the current trend selector value.
func (c *Console) TrendJob() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trendJob
}

func (c *Console) jobQueryValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobQuery
}

func (c *Console) pipelineQueryValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipelineQuery
}

func (c *Console) executionQueryValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executionQuery
}

// renderTrend recomputes the trend series from the current executions
// snapshot and pushes it to the chart sink.
func (c *Console) renderTrend() {
	series := BuildTrend(c.state.Executions(), c.TrendJob(), time.Now())
	c.renderer.RenderTrend(series)
}

// refetchAfterAction refreshes executions and metrics after a successful
// trigger, once the settle delay elapses.
func (c *Console) refetchAfterAction(ctx context.Context) {
	if c.settleDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.settleDelay):
		}
	}
	c.RefreshExecutions(ctx)
	c.RefreshMetrics(ctx)
}
