package console

import (
	"strings"
	"time"

	"github.com/teranos/batchtop/api"
)

// Executions views show at most this many rows after filtering.
const executionDisplayLimit = 10

// FormatStartTime renders an execution start time the way the executions
// view displays it. The formatted string is also a filter key, so filtering
// and display must agree.
func FormatStartTime(t time.Time) string {
	return t.Local().Format("1/2/2006, 3:04:05 PM")
}

// FilterJobs returns the jobs whose name or description contains the query,
// case-insensitively. An empty query returns the input unchanged. The input
// is never mutated; callers re-filter from the cache on every query or
// cache change.
func FilterJobs(jobs []api.Job, query string) []api.Job {
	if query == "" {
		return jobs
	}
	q := strings.ToLower(query)
	var out []api.Job
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job.Name), q) ||
			strings.Contains(strings.ToLower(job.Description), q) {
			out = append(out, job)
		}
	}
	return out
}

// FilterPipelines returns the pipelines whose name or description contains
// the query, case-insensitively.
func FilterPipelines(pipelines []api.Pipeline, query string) []api.Pipeline {
	if query == "" {
		return pipelines
	}
	q := strings.ToLower(query)
	var out []api.Pipeline
	for _, p := range pipelines {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterExecutions returns the executions whose job name or displayed start
// time contains the query, case-insensitively, preserving fetch order.
func FilterExecutions(executions []api.Execution, query string) []api.Execution {
	if query == "" {
		return executions
	}
	q := strings.ToLower(query)
	var out []api.Execution
	for _, e := range executions {
		if strings.Contains(strings.ToLower(e.JobName), q) ||
			strings.Contains(strings.ToLower(FormatStartTime(e.StartTime)), q) {
			out = append(out, e)
		}
	}
	return out
}

// VisibleExecutions filters then truncates to the display limit.
// Truncation happens after filtering so a narrow query can still surface
// rows beyond the first ten fetched.
func VisibleExecutions(executions []api.Execution, query string) []api.Execution {
	filtered := FilterExecutions(executions, query)
	if len(filtered) > executionDisplayLimit {
		return filtered[:executionDisplayLimit]
	}
	return filtered
}
