package console

import (
	"time"

	"github.com/teranos/batchtop/api"
)

// Trend buckets cover the trailing seven calendar days, today included.
const trendDays = 7

// TrendAllJobs selects every job for trend aggregation.
const TrendAllJobs = "all"

// TrendSeries is the view-model pushed to the trend chart sink: one label
// per calendar day, oldest first, with parallel success and failure counts.
// A day with no executions is present with zero counts, never omitted.
type TrendSeries struct {
	Labels  []string
	Success []int
	Failure []int
}

// DayLabel formats a calendar-day bucket label from the viewer's local
// date. The label doubles as the bucket key: if two distinct days ever
// formatted to the same label their buckets would silently merge. That
// cannot happen with month/day formatting across a seven-day window under
// normal clocks; it is a known limitation, kept rather than guessed at.
func DayLabel(t time.Time) string {
	return t.Local().Format("Jan 2")
}

// BuildTrend aggregates executions into the 7-day success/failure series.
//
// The window is the trailing 7*24h from now, left-open and right-closed: an
// execution exactly seven days old is excluded. Surviving executions are
// bucketed by local calendar day, so same-day runs collapse to one bucket
// regardless of time of day. COMPLETED increments success, FAILED
// increments failure, anything else (RUNNING included) counts toward
// neither. jobName narrows to one job; TrendAllJobs keeps everything.
func BuildTrend(executions []api.Execution, jobName string, now time.Time) TrendSeries {
	series := TrendSeries{
		Labels:  make([]string, 0, trendDays),
		Success: make([]int, trendDays),
		Failure: make([]int, trendDays),
	}

	index := make(map[string]int, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		label := DayLabel(now.AddDate(0, 0, -i))
		index[label] = len(series.Labels)
		series.Labels = append(series.Labels, label)
	}

	cutoff := now.Add(-trendDays * 24 * time.Hour)
	for _, e := range executions {
		if jobName != TrendAllJobs && e.JobName != jobName {
			continue
		}
		if !e.StartTime.After(cutoff) {
			continue
		}
		i, ok := index[DayLabel(e.StartTime)]
		if !ok {
			continue
		}
		switch e.Status {
		case api.StatusCompleted:
			series.Success[i]++
		case api.StatusFailed:
			series.Failure[i]++
		}
	}

	return series
}
