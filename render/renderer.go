// Package render implements the console's render sinks on pterm. It is a
// pure consumer of view-models; all state and ordering lives in the
// console package.
package render

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/batchtop/api"
	"github.com/teranos/batchtop/console"
)

// TermRenderer renders list views, the metrics panel, and the trend chart
// to the terminal.
type TermRenderer struct{}

// NewTermRenderer creates a terminal renderer.
func NewTermRenderer() *TermRenderer {
	return &TermRenderer{}
}

// RenderJobs prints the jobs list.
func (r *TermRenderer) RenderJobs(jobs []api.Job) {
	pterm.DefaultSection.Println("Jobs")
	if len(jobs) == 0 {
		pterm.Println(pterm.Gray("  no jobs"))
		return
	}

	data := pterm.TableData{{"Name", "Description"}}
	for _, job := range jobs {
		data = append(data, []string{job.Name, job.Description})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderPipelines prints the pipelines list.
func (r *TermRenderer) RenderPipelines(pipelines []api.Pipeline) {
	pterm.DefaultSection.Println("Pipelines")
	if len(pipelines) == 0 {
		pterm.Println(pterm.Gray("  no pipelines"))
		return
	}

	data := pterm.TableData{{"Name", "Description", "Flow", "Jobs"}}
	for _, p := range pipelines {
		data = append(data, []string{p.Name, p.Description, p.Flow, fmt.Sprintf("%d", p.JobCount)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderExecutions prints the recent executions view.
func (r *TermRenderer) RenderExecutions(executions []api.Execution) {
	pterm.DefaultSection.Println("Recent Executions")
	r.executionTable(executions)
}

// RenderHistory prints the execution history of one job.
func (r *TermRenderer) RenderHistory(jobName string, executions []api.Execution) {
	pterm.DefaultSection.Printfln("History: %s", jobName)
	r.executionTable(executions)
}

func (r *TermRenderer) executionTable(executions []api.Execution) {
	if len(executions) == 0 {
		pterm.Println(pterm.Gray("  no executions"))
		return
	}

	data := pterm.TableData{{"Job", "Started", "Status", "Log"}}
	for _, e := range executions {
		logHint := ""
		if e.Terminal() {
			logHint = "log " + e.ExecutionID
		}
		data = append(data, []string{
			e.JobName,
			console.FormatStartTime(e.StartTime),
			statusText(e.Status),
			logHint,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderScheduledJobs prints the scheduled jobs list.
func (r *TermRenderer) RenderScheduledJobs(scheduled []api.ScheduledJob) {
	pterm.DefaultSection.Println("Scheduled Jobs")
	if len(scheduled) == 0 {
		pterm.Println(pterm.Gray("  no scheduled jobs"))
		return
	}

	data := pterm.TableData{{"ID", "Name", "Type", "Target", "Cron", "Enabled", "Last Run", "Next Run"}}
	for _, s := range scheduled {
		data = append(data, []string{
			s.ID,
			s.Name,
			s.Type,
			s.TargetName,
			s.CronExpression,
			enabledText(s.Enabled),
			optionalTime(s.LastExecutionTime),
			optionalTime(s.NextExecutionTime),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderMetrics prints the runtime metrics panel.
func (r *TermRenderer) RenderMetrics(m api.MetricsSnapshot) {
	pterm.DefaultSection.Println("Runtime Metrics")
	bars := pterm.Bars{
		{Label: "CPU %", Value: int(m.CPUUsagePercent + 0.5)},
		{Label: "Heap %", Value: int(m.HeapUsagePercent + 0.5)},
		{Label: "Sys Mem %", Value: int(m.SystemMemoryUsagePercent + 0.5)},
		{Label: "Threads", Value: m.ActiveThreadCount},
		{Label: "Queue", Value: m.QueueSize},
	}
	pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render()
}

// RenderTrend prints the 7-day success/failure chart: a green success bar
// and a red failure bar per day, oldest first.
func (r *TermRenderer) RenderTrend(series console.TrendSeries) {
	pterm.DefaultSection.Println("Execution Trends (7 days)")

	bars := make(pterm.Bars, 0, len(series.Labels)*2)
	for i, label := range series.Labels {
		bars = append(bars,
			pterm.Bar{Label: label + " ok", Value: series.Success[i], Style: pterm.NewStyle(pterm.FgGreen)},
			pterm.Bar{Label: label + " fail", Value: series.Failure[i], Style: pterm.NewStyle(pterm.FgRed)},
		)
	}
	pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render()
}

func statusText(status string) string {
	switch status {
	case api.StatusCompleted:
		return pterm.Green(status)
	case api.StatusFailed:
		return pterm.Red(status)
	case api.StatusRunning:
		return pterm.Yellow(status)
	default:
		return status
	}
}

func enabledText(enabled bool) string {
	if enabled {
		return "Yes"
	}
	return "No"
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return console.FormatStartTime(*t)
}
