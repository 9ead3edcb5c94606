package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_LegalPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		from  State
		event Event
		want  State
	}{
		{"start with hooks", StateIdle, EventStartWithHooks, StateHooksPending},
		{"start without hooks", StateIdle, EventStartWithoutHooks, StateReviewing},
		{"hooks pass", StateHooksPending, EventHooksPassed, StateReviewing},
		{"hooks fail", StateHooksPending, EventHooksFailed, StateHooksFailed},
		{"hooks overridden", StateHooksPending, EventHooksOverridden, StateReviewing},
		{"retry hooks", StateHooksFailed, EventRetryHooks, StateHooksPending},
		{"proceed anyway", StateHooksFailed, EventProceedAnyway, StateReviewing},
		{"message ready", StateReviewing, EventMessageReady, StateAwaitingChoice},
		{"regenerate", StateAwaitingChoice, EventRegenerate, StateAwaitingChoice},
		{"accept", StateAwaitingChoice, EventAccept, StateCommitting},
		{"commit succeeds", StateCommitting, EventCommitSucceeded, StateCompleted},
		{"commit fails", StateCommitting, EventCommitFailed, StateCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Transition(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_CancelFromAnyNonTerminalState(t *testing.T) {
	t.Parallel()

	for _, from := range []State{
		StateIdle, StateHooksPending, StateHooksFailed,
		StateReviewing, StateAwaitingChoice, StateCommitting,
	} {
		got, err := Transition(from, EventCancel)
		require.NoError(t, err, "from %s", from)
		assert.Equal(t, StateCancelled, got)
	}
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	t.Parallel()

	events := []Event{
		EventStartWithHooks, EventStartWithoutHooks, EventHooksPassed,
		EventHooksFailed, EventHooksOverridden, EventRetryHooks,
		EventProceedAnyway, EventMessageReady, EventRegenerate,
		EventAccept, EventCancel, EventCommitSucceeded, EventCommitFailed,
	}
	for _, terminal := range []State{StateCancelled, StateCompleted} {
		for _, ev := range events {
			got, err := Transition(terminal, ev)
			assert.Error(t, err, "%s on %s", ev, terminal)
			assert.Equal(t, terminal, got)
		}
	}
}

// Accept from AwaitingChoice is the sole edge into Committing.
func TestTransition_CommittingOnlyViaAccept(t *testing.T) {
	t.Parallel()

	events := []Event{
		EventStartWithHooks, EventStartWithoutHooks, EventHooksPassed,
		EventHooksFailed, EventHooksOverridden, EventRetryHooks,
		EventProceedAnyway, EventMessageReady, EventRegenerate,
		EventAccept, EventCancel, EventCommitSucceeded, EventCommitFailed,
	}
	states := []State{
		StateIdle, StateHooksPending, StateHooksFailed,
		StateReviewing, StateAwaitingChoice, StateCommitting,
	}
	for _, from := range states {
		for _, ev := range events {
			got, err := Transition(from, ev)
			if got == StateCommitting && err == nil && from != StateCommitting {
				assert.Equal(t, StateAwaitingChoice, from)
				assert.Equal(t, EventAccept, ev)
			}
		}
	}
}

func TestTransition_IllegalEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from  State
		event Event
	}{
		{StateIdle, EventAccept},
		{StateIdle, EventCommitSucceeded},
		{StateReviewing, EventAccept},
		{StateReviewing, EventHooksPassed},
		{StateHooksPending, EventMessageReady},
		{StateAwaitingChoice, EventCommitSucceeded},
		{StateCommitting, EventRegenerate},
	}
	for _, tt := range tests {
		got, err := Transition(tt.from, tt.event)
		assert.Error(t, err, "%s on %s", tt.event, tt.from)
		assert.Equal(t, tt.from, got, "state must not move on an illegal event")
	}
}
