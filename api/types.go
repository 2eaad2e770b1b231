// Package api provides the REST client and wire types for the batch
// platform's fixed HTTP surface. The platform owns jobs, pipelines,
// executions, metrics, and schedule evaluation; the console is a pure
// consumer of this contract.
package api

import (
	"maps"
	"time"
)

// Job is a single named unit of executable work defined server-side.
type Job struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Pipeline is a composition of jobs with a declared execution-order mode.
// JobCount travels as "jobs" on the wire.
type Pipeline struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Flow        string `json:"flow"`
	JobCount    int    `json:"jobs"`
}

// Execution status constants as reported by the platform.
const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Execution is one run record of a job.
type Execution struct {
	ExecutionID string    `json:"executionId"`
	JobName     string    `json:"jobName"`
	StartTime   time.Time `json:"startTime"`
	Status      string    `json:"status"`
}

// Terminal reports whether the execution has finished. Log download is
// offered only for terminal executions.
func (e Execution) Terminal() bool {
	return e.Status == StatusCompleted || e.Status == StatusFailed
}

// MetricsSnapshot is the platform's runtime metrics sample. It has no
// identity and is replaced wholesale on every poll.
type MetricsSnapshot struct {
	CPUUsagePercent          float64 `json:"cpu_usage"`
	HeapUsagePercent         float64 `json:"heap_usage_percent"`
	SystemMemoryUsagePercent float64 `json:"system_memory_usage_percent"`
	ActiveThreadCount        int     `json:"active_thread_count"`
	QueueSize                int     `json:"queue_size"`
}

// Scheduled job target types.
const (
	TypeJob      = "JOB"
	TypePipeline = "PIPELINE"
)

// ScheduledJob is a cron-driven binding of a recurring trigger to a job or
// pipeline target. ID is empty until the server assigns one; sending an
// upsert without an ID creates, with an ID updates.
type ScheduledJob struct {
	ID                string         `json:"id,omitempty"`
	Name              string         `json:"name"`
	Type              string         `json:"type"`
	TargetName        string         `json:"targetName"`
	CronExpression    string         `json:"cronExpression"`
	Parameters        map[string]any `json:"parameters"`
	Enabled           bool           `json:"enabled"`
	LastExecutionTime *time.Time     `json:"lastExecutionTime,omitempty"`
	NextExecutionTime *time.Time     `json:"nextExecutionTime,omitempty"`
}

// Clone returns a deep copy suitable for an edit buffer, so form mutations
// never leak into the cache.
func (s ScheduledJob) Clone() ScheduledJob {
	out := s
	if s.Parameters != nil {
		out.Parameters = maps.Clone(s.Parameters)
	}
	if s.LastExecutionTime != nil {
		t := *s.LastExecutionTime
		out.LastExecutionTime = &t
	}
	if s.NextExecutionTime != nil {
		t := *s.NextExecutionTime
		out.NextExecutionTime = &t
	}
	return out
}

// ActionResult is the platform's uniform response to mutations (trigger,
// schedule upsert, schedule delete).
type ActionResult struct {
	Success     bool   `json:"success"`
	ExecutionID string `json:"executionId,omitempty"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

// FailureText returns the most specific failure message the server
// supplied: error first, then message.
func (r ActionResult) FailureText() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}
