package console

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/teranos/batchtop/api"
	"github.com/teranos/batchtop/errors"
)

// Schedule editor phases. One edit session walks
// closed → open → submitting → closed, or closed → open → closed on
// cancel. The modal stays open when a submit fails.
const (
	PhaseClosed     = "closed"
	PhaseOpen       = "open"
	PhaseSubmitting = "submitting"
)

// ScheduleForm is the edit buffer for one scheduled-job edit session. It is
// created on open, mutated by field edits, and destroyed on submit or
// cancel; the server remains the system of record for the entity itself.
type ScheduleForm struct {
	Phase   string
	Editing bool // true when the session edits an existing schedule

	// Buffer is a deep copy of the schedule under edit, never a cache
	// entry, so edits cannot leak into the snapshot.
	Buffer api.ScheduledJob

	// ParametersText is the free-form parameters JSON under edit. It is
	// parsed on submit; a parse failure aborts locally without touching
	// the network.
	ParametersText string

	// TargetOptions is derived from whichever cache matches Buffer.Type
	// and is rebuilt on every type change.
	TargetOptions []string
}

// Form returns a snapshot of the current edit session, or nil when closed.
func (c *Console) Form() *ScheduleForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return nil
	}
	snapshot := *c.form
	snapshot.Buffer = c.form.Buffer.Clone()
	snapshot.TargetOptions = slices.Clone(c.form.TargetOptions)
	return &snapshot
}

// OpenScheduleEditor starts a create session: empty ID, enabled, empty
// parameters, target options drawn from the jobs cache for the default
// JOB type. The jobs cache may still be empty on a very first paint; the
// options rebuild re-reads whichever snapshot is current.
func (c *Console) OpenScheduleEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = &ScheduleForm{
		Phase: PhaseOpen,
		Buffer: api.ScheduledJob{
			Type:       api.TypeJob,
			Parameters: map[string]any{},
			Enabled:    true,
		},
		ParametersText: "{}",
	}
	c.rebuildTargetOptionsLocked()
}

// EditScheduledJob starts an edit session for an existing schedule. The
// target options are rebuilt for the schedule's type before the target
// name is assigned, so the selector already holds the right option set
// when the value lands.
func (c *Console) EditScheduledJob(id string) error {
	job, ok := c.state.FindScheduledJob(id)
	if !ok {
		c.log.Warnw("Scheduled job not in cache, cannot edit", "id", id)
		return errors.Wrapf(errors.ErrNotFound, "scheduled job %q", id)
	}

	paramsText := "{}"
	if job.Parameters != nil {
		formatted, err := json.MarshalIndent(job.Parameters, "", "  ")
		if err == nil {
			paramsText = string(formatted)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = &ScheduleForm{
		Phase:          PhaseOpen,
		Editing:        true,
		Buffer:         job.Clone(),
		ParametersText: paramsText,
	}
	c.rebuildTargetOptionsLocked()
	return nil
}

// CancelScheduleEditor abandons the edit session and destroys the buffer.
func (c *Console) CancelScheduleEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = nil
}

// SetScheduleType switches the target type and rebuilds the target options
// from the matching cache. Options from the previous type are never
// retained. The selected target survives only if it exists under the new
// type.
func (c *Console) SetScheduleType(scheduleType string) error {
	if scheduleType != api.TypeJob && scheduleType != api.TypePipeline {
		return errors.NewValidationError("unknown schedule type %q", scheduleType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return errors.ErrFormClosed
	}

	c.form.Buffer.Type = scheduleType
	c.rebuildTargetOptionsLocked()
	if !slices.Contains(c.form.TargetOptions, c.form.Buffer.TargetName) {
		c.form.Buffer.TargetName = ""
	}
	return nil
}

// SetScheduleField edits one field of the open form. Known fields: name,
// type, target, cron, params, enabled.
func (c *Console) SetScheduleField(field, value string) error {
	if field == "type" {
		return c.SetScheduleType(value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return errors.ErrFormClosed
	}

	switch field {
	case "name":
		c.form.Buffer.Name = value
	case "target":
		c.form.Buffer.TargetName = value
	case "cron":
		c.form.Buffer.CronExpression = value
	case "params":
		c.form.ParametersText = value
	case "enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return errors.NewValidationError("enabled must be true or false, got %q", value)
		}
		c.form.Buffer.Enabled = enabled
	default:
		return errors.NewValidationError("unknown schedule field %q", field)
	}
	return nil
}

// SubmitSchedule parses the parameters text and sends the buffer as a
// single upsert. A parse failure aborts locally with a toast and never
// reaches the network. On success the session closes, a success toast is
// raised, and the scheduled-jobs cache is refetched as the sole source of
// truth; no optimistic local patch. On failure the session stays open.
func (c *Console) SubmitSchedule(ctx context.Context) error {
	c.mu.Lock()
	if c.form == nil {
		c.mu.Unlock()
		return errors.ErrFormClosed
	}

	parameters := map[string]any{}
	if text := c.form.ParametersText; text != "" {
		if err := json.Unmarshal([]byte(text), &parameters); err != nil {
			c.mu.Unlock()
			c.notifier.Show("Failed to save schedule: "+err.Error(), SeverityError)
			return errors.NewValidationError("malformed parameters: %v", err)
		}
	}

	c.form.Buffer.Parameters = parameters
	c.form.Phase = PhaseSubmitting
	buffer := c.form.Buffer.Clone()
	c.mu.Unlock()

	result, err := c.client.SaveScheduledJob(ctx, buffer)
	if err != nil {
		c.reopenForm()
		c.notifier.Show("Failed to save schedule: "+err.Error(), SeverityError)
		return err
	}
	if !result.Success {
		c.reopenForm()
		c.notifier.Show("Failed to save schedule: "+result.FailureText(), SeverityError)
		return errors.NewServerRejection(result.FailureText())
	}

	c.mu.Lock()
	c.form = nil
	c.mu.Unlock()

	c.notifier.Show("Schedule saved successfully!", SeveritySuccess)
	c.RefreshScheduledJobs(ctx)
	return nil
}

// DeleteScheduledJob deletes a schedule after an explicit confirmation.
// Same notification and refetch-on-success policy as submit.
func (c *Console) DeleteScheduledJob(ctx context.Context, id string) error {
	if c.confirm != nil && !c.confirm("Are you sure you want to delete this scheduled job?") {
		return nil
	}

	result, err := c.client.DeleteScheduledJob(ctx, id)
	if err != nil {
		c.notifier.Show("Failed to delete schedule: "+err.Error(), SeverityError)
		return err
	}
	if !result.Success {
		c.notifier.Show("Failed to delete schedule: "+result.FailureText(), SeverityError)
		return errors.NewServerRejection(result.FailureText())
	}

	c.notifier.Show("Schedule deleted successfully!", SeveritySuccess)
	c.RefreshScheduledJobs(ctx)
	return nil
}

// rebuildTargetOptionsLocked repopulates the target selector from the
// cache matching the buffer's type. Always called before a target value is
// assigned, so the selector can never show options from a stale type.
// Callers hold c.mu.
func (c *Console) rebuildTargetOptionsLocked() {
	switch c.form.Buffer.Type {
	case api.TypeJob:
		c.form.TargetOptions = c.state.JobNames()
	case api.TypePipeline:
		c.form.TargetOptions = c.state.PipelineNames()
	default:
		c.form.TargetOptions = nil
	}
}

// reopenForm returns a submitting session to the open phase after a
// failed submit, leaving the buffer intact for correction.
func (c *Console) reopenForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form != nil {
		c.form.Phase = PhaseOpen
	}
}
