package console

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/batchtop/errors"
)

// Handler executes one named console action.
type Handler func(ctx context.Context, args []string) error

// Dispatcher is the command dispatch table: action name to handler,
// decoupled from any rendering technology. The interactive loop feeds it
// operator input lines; tests drive it directly.
type Dispatcher struct {
	handlers map[string]Handler
}

// Dispatch parses one input line and runs the matching handler.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	handler, ok := d.handlers[fields[0]]
	if !ok {
		return errors.Newf("unknown action %q", fields[0])
	}
	return handler(ctx, fields[1:])
}

// Actions returns the registered action names, sorted.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatcher builds the action table over this console.
func (c *Console) Dispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string]Handler{
		"refresh": func(ctx context.Context, args []string) error {
			c.RefreshAll(ctx)
			return nil
		},
		"jobs": func(ctx context.Context, args []string) error {
			c.SetJobQuery(strings.Join(args, " "))
			return nil
		},
		"pipelines": func(ctx context.Context, args []string) error {
			c.SetPipelineQuery(strings.Join(args, " "))
			return nil
		},
		"executions": func(ctx context.Context, args []string) error {
			c.SetExecutionQuery(strings.Join(args, " "))
			return nil
		},
		"trend": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.Newf("usage: trend <job-name|%s>", TrendAllJobs)
			}
			c.SetTrendJob(args[0])
			return nil
		},
		"interval": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: interval <seconds>")
			}
			seconds, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.NewValidationError("interval must be a number of seconds, got %q", args[0])
			}
			return c.SetRefreshInterval(seconds)
		},
		"trigger": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: trigger <job-name>")
			}
			return c.TriggerJob(ctx, args[0])
		},
		"trigger-pipeline": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: trigger-pipeline <pipeline-name>")
			}
			return c.TriggerPipeline(ctx, args[0])
		},
		"log": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: log <execution-id>")
			}
			return c.DownloadLog(ctx, args[0])
		},
		"history": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: history <job-name>")
			}
			return c.ShowHistory(ctx, args[0])
		},
		"schedule-new": func(ctx context.Context, args []string) error {
			c.OpenScheduleEditor()
			return nil
		},
		"schedule-edit": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: schedule-edit <id>")
			}
			return c.EditScheduledJob(args[0])
		},
		"schedule-set": func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return errors.New("usage: schedule-set <field> <value>")
			}
			return c.SetScheduleField(args[0], strings.Join(args[1:], " "))
		},
		"schedule-save": func(ctx context.Context, args []string) error {
			return c.SubmitSchedule(ctx)
		},
		"schedule-cancel": func(ctx context.Context, args []string) error {
			c.CancelScheduleEditor()
			return nil
		},
		"schedule-delete": func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: schedule-delete <id>")
			}
			return c.DeleteScheduledJob(ctx, args[0])
		},
		"dismiss": func(ctx context.Context, args []string) error {
			c.notifier.Dismiss()
			return nil
		},
	}}
}
