package console

import (
	"context"
)

// Resource fetchers. Each one reads a full snapshot from the platform,
// replaces the corresponding cache atomically on success, and renders the
// current view. On failure the previous snapshot stays visible
// (stale-but-consistent, never a partial merge) and the error goes to the
// logger only: background poll failures raise no toasts. Fetchers are
// idempotent and side-effect-free on the server.

// RefreshJobs refetches the jobs cache and re-renders the jobs view.
func (c *Console) RefreshJobs(ctx context.Context) error {
	jobs, err := c.client.Jobs(ctx)
	if err != nil {
		c.log.Warnw("Jobs fetch failed", "error", err)
		return err
	}
	c.state.SetJobs(jobs)
	c.renderer.RenderJobs(FilterJobs(jobs, c.jobQueryValue()))
	return nil
}

// RefreshPipelines refetches the pipelines cache and re-renders.
func (c *Console) RefreshPipelines(ctx context.Context) error {
	pipelines, err := c.client.Pipelines(ctx)
	if err != nil {
		c.log.Warnw("Pipelines fetch failed", "error", err)
		return err
	}
	c.state.SetPipelines(pipelines)
	c.renderer.RenderPipelines(FilterPipelines(pipelines, c.pipelineQueryValue()))
	return nil
}

// RefreshExecutions refetches the executions cache and re-renders the
// executions view. The trend series is not recomputed here; the trend
// timer and the selector own that.
func (c *Console) RefreshExecutions(ctx context.Context) error {
	executions, err := c.client.Executions(ctx)
	if err != nil {
		c.log.Warnw("Executions fetch failed", "error", err)
		return err
	}
	c.state.SetExecutions(executions)
	c.renderer.RenderExecutions(VisibleExecutions(executions, c.executionQueryValue()))
	return nil
}

// RefreshMetrics refetches the metrics snapshot and re-renders the panel.
func (c *Console) RefreshMetrics(ctx context.Context) error {
	metrics, err := c.client.Metrics(ctx)
	if err != nil {
		c.log.Warnw("Metrics fetch failed", "error", err)
		return err
	}
	c.state.SetMetrics(metrics)
	c.renderer.RenderMetrics(metrics)
	return nil
}

// RefreshScheduledJobs refetches the scheduled-jobs cache and re-renders.
func (c *Console) RefreshScheduledJobs(ctx context.Context) error {
	scheduled, err := c.client.ScheduledJobs(ctx)
	if err != nil {
		c.log.Warnw("Scheduled jobs fetch failed", "error", err)
		return err
	}
	c.state.SetScheduledJobs(scheduled)
	c.renderer.RenderScheduledJobs(scheduled)
	return nil
}

// RefreshAll refetches every resource sequentially and recomputes the
// trend. Used by the explicit refresh action; startup uses Start, which
// launches the same fetches concurrently.
func (c *Console) RefreshAll(ctx context.Context) {
	c.RefreshJobs(ctx)
	c.RefreshPipelines(ctx)
	c.RefreshExecutions(ctx)
	c.RefreshMetrics(ctx)
	c.RefreshScheduledJobs(ctx)
	c.renderTrend()
}
