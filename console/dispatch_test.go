package console

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/batchtop/api"
	batchtest "github.com/teranos/batchtop/internal/testing"
)

func TestDispatchUnknownAction(t *testing.T) {
	p := batchtest.NewPlatform(t)
	c, _, _ := newTestConsole(t, p)

	err := c.Dispatcher().Dispatch(context.Background(), "frobnicate now")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestDispatchBlankLineIsNoop(t *testing.T) {
	p := batchtest.NewPlatform(t)
	c, _, _ := newTestConsole(t, p)

	assert.NoError(t, c.Dispatcher().Dispatch(context.Background(), "   "))
}

func TestDispatchInterval(t *testing.T) {
	p := batchtest.NewPlatform(t)
	c, _, _ := newTestConsole(t, p)
	c.Poller().Start(time.Hour)
	defer c.Stop()

	require.NoError(t, c.Dispatcher().Dispatch(context.Background(), "interval 2"))

	assert.Equal(t, 2*time.Second, c.Poller().MetricsPeriod())
	assert.Equal(t, 5*time.Second, c.Poller().TrendPeriod())

	err := c.Dispatcher().Dispatch(context.Background(), "interval soon")
	require.Error(t, err)
	err = c.Dispatcher().Dispatch(context.Background(), "interval")
	require.Error(t, err)
}

func TestDispatchQueriesAndTrend(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetJobs(api.Job{Name: "alpha"}, api.Job{Name: "beta"})
	c, renderer, _ := newTestConsole(t, p)
	require.NoError(t, c.RefreshJobs(context.Background()))
	d := c.Dispatcher()
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, "jobs beta"))
	jobs := renderer.lastJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "beta", jobs[0].Name)

	require.NoError(t, d.Dispatch(ctx, "trend alpha"))
	assert.Equal(t, "alpha", c.TrendJob())

	err := d.Dispatch(ctx, "trend")
	require.Error(t, err)
}

func TestDispatchRefreshFetchesEverything(t *testing.T) {
	p := batchtest.NewPlatform(t)
	c, renderer, _ := newTestConsole(t, p)

	require.NoError(t, c.Dispatcher().Dispatch(context.Background(), "refresh"))

	assert.Equal(t, 1, p.Requests("/api/jobs"))
	assert.Equal(t, 1, p.Requests("/api/pipelines"))
	assert.Equal(t, 1, p.Requests("/api/executions"))
	assert.Equal(t, 1, p.Requests("/api/metrics"))
	assert.Equal(t, 1, p.Requests("/api/scheduled-jobs"))
	assert.Equal(t, 1, renderer.trendCount())
}

func TestDispatchScheduleWorkflow(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetJobs(api.Job{Name: "daily-report"})
	c, _, _ := newTestConsole(t, p)
	require.NoError(t, c.RefreshJobs(context.Background()))
	d := c.Dispatcher()
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, "schedule-new"))
	require.NoError(t, d.Dispatch(ctx, "schedule-set name nightly report"))
	require.NoError(t, d.Dispatch(ctx, "schedule-set target daily-report"))
	require.NoError(t, d.Dispatch(ctx, "schedule-set cron 0 0 2 * * ?"))
	require.NoError(t, d.Dispatch(ctx, "schedule-save"))

	saved := p.LastSaved()
	require.NotNil(t, saved)
	// Remaining argument words join back into one value.
	assert.Equal(t, "nightly report", saved.Name)
	assert.Equal(t, "0 0 2 * * ?", saved.CronExpression)
	assert.Nil(t, c.Form())
}

func TestDispatchDismiss(t *testing.T) {
	p := batchtest.NewPlatform(t)
	c, _, _ := newTestConsole(t, p)
	c.Notifier().Show("hello", SeverityInfo)

	require.NoError(t, c.Dispatcher().Dispatch(context.Background(), "dismiss"))

	assert.Nil(t, c.Notifier().Current())
}

func TestDispatcherActionsSorted(t *testing.T) {
	p := batchtest.NewPlatform(t)
	c, _, _ := newTestConsole(t, p)

	actions := c.Dispatcher().Actions()

	require.NotEmpty(t, actions)
	assert.IsIncreasing(t, actions)
	assert.Contains(t, actions, "trigger")
	assert.Contains(t, actions, "schedule-save")
}
