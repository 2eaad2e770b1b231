package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/batchtop/api"
	"github.com/teranos/batchtop/errors"
	batchtest "github.com/teranos/batchtop/internal/testing"
)

func newClient(t *testing.T, p *batchtest.Platform) *api.Client {
	t.Helper()
	client, err := api.NewClientWithHTTP(p.URL(), p.Server.Client(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return client
}

func TestClientRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := api.NewClient(raw, zap.NewNop().Sugar())
		assert.Error(t, err, "base URL %q", raw)
	}
}

func TestJobsDecodesWirePayload(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetJobs(api.Job{Name: "daily-report", Description: "Generates the daily sales report"})

	jobs, err := newClient(t, p).Jobs(context.Background())

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "daily-report", jobs[0].Name)
}

func TestPipelinesJobCountTravelsAsJobs(t *testing.T) {
	// The wire field is "jobs", a count, not a list.
	payload := `[{"name":"nightly-etl","description":"load","flow":"SEQUENTIAL","jobs":4}]`
	var pipelines []api.Pipeline
	require.NoError(t, json.Unmarshal([]byte(payload), &pipelines))

	require.Len(t, pipelines, 1)
	assert.Equal(t, 4, pipelines[0].JobCount)

	out, err := json.Marshal(pipelines[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"jobs":4`)
}

func TestMetricsDecodesSnakeCaseKeys(t *testing.T) {
	payload := `{"cpu_usage":42.5,"heap_usage_percent":61.2,"system_memory_usage_percent":70.1,"active_thread_count":8,"queue_size":3}`
	var m api.MetricsSnapshot
	require.NoError(t, json.Unmarshal([]byte(payload), &m))

	assert.Equal(t, 42.5, m.CPUUsagePercent)
	assert.Equal(t, 61.2, m.HeapUsagePercent)
	assert.Equal(t, 70.1, m.SystemMemoryUsagePercent)
	assert.Equal(t, 8, m.ActiveThreadCount)
	assert.Equal(t, 3, m.QueueSize)
}

func TestExecutionsDecodeRFC3339StartTimes(t *testing.T) {
	p := batchtest.NewPlatform(t)
	start := time.Date(2026, 3, 5, 14, 30, 45, 0, time.UTC)
	p.SetExecutions(api.Execution{ExecutionID: "e1", JobName: "j", StartTime: start, Status: api.StatusRunning})

	executions, err := newClient(t, p).Executions(context.Background())

	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.True(t, executions[0].StartTime.Equal(start))
	assert.False(t, executions[0].Terminal())
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.FailAll(true)

	_, err := newClient(t, p).Jobs(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch jobs")
}

func TestTriggerJobReturnsRejectionAsResult(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetTriggerResult(api.ActionResult{Success: false, Error: "no such job"})

	result, err := newClient(t, p).TriggerJob(context.Background(), "ghost")

	// A decoded rejection is a result, not a transport error; the caller
	// owns the user-facing message.
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "no such job", result.FailureText())
}

func TestTriggerPipelineSuccess(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetTriggerResult(api.ActionResult{Success: true, ExecutionID: "exec-9"})

	result, err := newClient(t, p).TriggerPipeline(context.Background(), "nightly-etl")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "exec-9", result.ExecutionID)
	assert.Equal(t, 1, p.Requests("/api/pipelines/nightly-etl/trigger"))
}

func TestSaveScheduledJobOmitsEmptyIDOnCreate(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewEncoder(w).Encode(api.ActionResult{Success: true})
	}))
	defer server.Close()

	client, err := api.NewClientWithHTTP(server.URL, server.Client(), zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = client.SaveScheduledJob(context.Background(), api.ScheduledJob{
		Name:           "nightly",
		Type:           api.TypeJob,
		TargetName:     "daily-report",
		CronExpression: "0 0 2 * * ?",
		Parameters:     map[string]any{},
		Enabled:        true,
	})
	require.NoError(t, err)

	_, hasID := body["id"]
	assert.False(t, hasID, "create upsert must not carry an id field")
	assert.Equal(t, "nightly", body["name"])
}

func TestDeleteScheduledJob(t *testing.T) {
	p := batchtest.NewPlatform(t)

	result, err := newClient(t, p).DeleteScheduledJob(context.Background(), "s1")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, p.Requests("/api/scheduled-jobs/s1"))
}

func TestExecutionLogDownload(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetLog("exec-1", []byte("log contents"))
	client := newClient(t, p)

	data, err := client.ExecutionLog(context.Background(), "exec-1")
	require.NoError(t, err)
	assert.Equal(t, "log contents", string(data))

	_, err = client.ExecutionLog(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLogUnavailable))
}

func TestJobHistory(t *testing.T) {
	p := batchtest.NewPlatform(t)
	p.SetHistory("daily-report",
		api.Execution{ExecutionID: "h1", JobName: "daily-report", StartTime: time.Now(), Status: api.StatusCompleted},
		api.Execution{ExecutionID: "h2", JobName: "daily-report", StartTime: time.Now(), Status: api.StatusFailed},
	)

	history, err := newClient(t, p).JobHistory(context.Background(), "daily-report")

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Terminal())
}
