package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/batchtop/errors"
	"github.com/teranos/batchtop/internal/httpclient"
)

const (
	defaultTimeout = 10 * time.Second

	// Request rate cap toward the platform. The poll scheduler already
	// floors the heavy trend refresh at 5s, but the interval control and
	// manual actions are operator-driven; the limiter bounds the combined
	// load no matter what the operator configures.
	requestsPerSecond = 20
	requestBurst      = 10
)

// Client talks to the batch platform's REST surface. All reads are
// side-effect-free on the server; mutations return an ActionResult.
type Client struct {
	baseURL *url.URL
	http    *httpclient.Client
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// NewClient creates a platform client for the given base URL.
func NewClient(baseURL string, log *zap.SugaredLogger) (*Client, error) {
	u, err := httpclient.ValidateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http:    httpclient.New(defaultTimeout),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		log:     log,
	}, nil
}

// NewClientWithHTTP creates a client over an existing HTTP client.
// Intended for tests driving an httptest server.
func NewClientWithHTTP(baseURL string, hc *http.Client, log *zap.SugaredLogger) (*Client, error) {
	u, err := httpclient.ValidateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http:    httpclient.Wrap(hc),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		log:     log,
	}, nil
}

// Jobs fetches all jobs defined on the platform.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.getJSON(ctx, "/api/jobs", &jobs); err != nil {
		return nil, errors.Wrap(err, "failed to fetch jobs")
	}
	return jobs, nil
}

// Pipelines fetches all pipelines defined on the platform.
func (c *Client) Pipelines(ctx context.Context) ([]Pipeline, error) {
	var pipelines []Pipeline
	if err := c.getJSON(ctx, "/api/pipelines", &pipelines); err != nil {
		return nil, errors.Wrap(err, "failed to fetch pipelines")
	}
	return pipelines, nil
}

// Executions fetches all execution records, in server-assigned order.
func (c *Client) Executions(ctx context.Context) ([]Execution, error) {
	var executions []Execution
	if err := c.getJSON(ctx, "/api/executions", &executions); err != nil {
		return nil, errors.Wrap(err, "failed to fetch executions")
	}
	return executions, nil
}

// JobHistory fetches execution records for a single job.
func (c *Client) JobHistory(ctx context.Context, jobName string) ([]Execution, error) {
	var executions []Execution
	path := fmt.Sprintf("/api/jobs/%s/history", url.PathEscape(jobName))
	if err := c.getJSON(ctx, path, &executions); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch history for job %q", jobName)
	}
	return executions, nil
}

// Metrics fetches the current runtime metrics snapshot.
func (c *Client) Metrics(ctx context.Context) (MetricsSnapshot, error) {
	var m MetricsSnapshot
	if err := c.getJSON(ctx, "/api/metrics", &m); err != nil {
		return MetricsSnapshot{}, errors.Wrap(err, "failed to fetch metrics")
	}
	return m, nil
}

// ScheduledJobs fetches all scheduled jobs.
func (c *Client) ScheduledJobs(ctx context.Context) ([]ScheduledJob, error) {
	var scheduled []ScheduledJob
	if err := c.getJSON(ctx, "/api/scheduled-jobs", &scheduled); err != nil {
		return nil, errors.Wrap(err, "failed to fetch scheduled jobs")
	}
	return scheduled, nil
}

// TriggerJob starts an ad hoc run of a job.
func (c *Client) TriggerJob(ctx context.Context, jobName string) (*ActionResult, error) {
	path := fmt.Sprintf("/api/jobs/%s/trigger", url.PathEscape(jobName))
	return c.postAction(ctx, path, nil)
}

// TriggerPipeline starts an ad hoc run of a pipeline.
func (c *Client) TriggerPipeline(ctx context.Context, pipelineName string) (*ActionResult, error) {
	path := fmt.Sprintf("/api/pipelines/%s/trigger", url.PathEscape(pipelineName))
	return c.postAction(ctx, path, nil)
}

// SaveScheduledJob upserts a scheduled job: an empty ID creates, a
// server-assigned ID updates.
func (c *Client) SaveScheduledJob(ctx context.Context, job ScheduledJob) (*ActionResult, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode scheduled job")
	}
	return c.postAction(ctx, "/api/scheduled-jobs", body)
}

// DeleteScheduledJob removes a scheduled job by ID.
func (c *Client) DeleteScheduledJob(ctx context.Context, id string) (*ActionResult, error) {
	path := fmt.Sprintf("/api/scheduled-jobs/%s", url.PathEscape(id))
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.doAction(req)
}

// ExecutionLog downloads the log artifact for a terminal execution.
// A non-2xx status maps to errors.ErrLogUnavailable: logs are retained
// server-side for a bounded window and may have expired.
func (c *Client) ExecutionLog(ctx context.Context, executionID string) ([]byte, error) {
	path := fmt.Sprintf("/api/executions/%s/log", url.PathEscape(executionID))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download log for execution %q", executionID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Wrapf(errors.ErrLogUnavailable, "execution %q (status %d)", executionID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read log for execution %q", executionID)
	}
	return data, nil
}

// newRequest builds a request against the platform with a correlation ID
// and waits on the rate limiter.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait interrupted")
	}

	target := c.baseURL.JoinPath(strings.Split(strings.TrimPrefix(path, "/"), "/")...)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// getJSON performs a GET and decodes the payload into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}
	return nil
}

// postAction performs a POST and decodes the uniform mutation response.
func (c *Client) postAction(ctx context.Context, path string, body []byte) (*ActionResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return c.doAction(req)
}

// doAction executes a mutation request. A transport failure returns an
// error; a decoded {success:false} is returned to the caller as a result,
// since the caller owns the user-facing failure message.
func (c *Client) doAction(req *http.Request) (*ActionResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response from %s", req.URL.Path)
	}

	if !result.Success {
		c.log.Debugw("Platform rejected mutation",
			"path", req.URL.Path,
			"error", result.Error,
			"message", result.Message)
	}
	return &result, nil
}
