package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledJobCloneIsDeep(t *testing.T) {
	next := time.Now().Add(time.Hour)
	original := ScheduledJob{
		ID:                "s1",
		Parameters:        map[string]any{"depth": "full"},
		NextExecutionTime: &next,
	}

	clone := original.Clone()
	clone.Parameters["depth"] = "shallow"
	*clone.NextExecutionTime = next.Add(time.Hour)

	assert.Equal(t, "full", original.Parameters["depth"])
	assert.True(t, original.NextExecutionTime.Equal(next))
}

func TestActionResultFailureTextPrefersError(t *testing.T) {
	assert.Equal(t, "boom", ActionResult{Error: "boom", Message: "context"}.FailureText())
	assert.Equal(t, "context", ActionResult{Message: "context"}.FailureText())
	assert.Empty(t, ActionResult{}.FailureText())
}

func TestExecutionTerminal(t *testing.T) {
	assert.True(t, Execution{Status: StatusCompleted}.Terminal())
	assert.True(t, Execution{Status: StatusFailed}.Terminal())
	assert.False(t, Execution{Status: StatusRunning}.Terminal())
}
