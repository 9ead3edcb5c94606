// Package session drives the interactive commit flow: hooks, review,
// message generation, and the final commit.
package session

import "fmt"

// State represents the lifecycle stage of a commit session.
type State string

const (
	StateIdle           State = "idle"
	StateHooksPending   State = "hooks_pending"
	StateHooksFailed    State = "hooks_failed"
	StateReviewing      State = "reviewing"
	StateAwaitingChoice State = "awaiting_message_choice"
	StateCommitting     State = "committing"
	StateCancelled      State = "cancelled"
	StateCompleted      State = "completed"
)

// Terminal reports whether the session is finished. Terminal states are
// never re-entered or left.
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateCompleted
}

// Event represents something that happened to a commit session.
type Event int

const (
	EventStartWithHooks    Event = iota // Session starts and a hook run is required
	EventStartWithoutHooks              // Session starts with no hook run required
	EventHooksPassed                    // Hook run succeeded
	EventHooksFailed                    // Hook run failed without auto-override
	EventHooksOverridden                // Hook run failed but --force-commit overrode it
	EventRetryHooks                     // Operator chose to re-run failed hooks
	EventProceedAnyway                  // Operator bypassed failed hooks with a reason
	EventMessageReady                   // Payload built and candidate message generated
	EventRegenerate                     // Operator requested a fresh candidate
	EventAccept                         // Operator accepted the candidate
	EventCancel                         // Operator cancelled
	EventCommitSucceeded                // Commit call succeeded
	EventCommitFailed                   // Commit call failed
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventStartWithHooks:
		return "StartWithHooks"
	case EventStartWithoutHooks:
		return "StartWithoutHooks"
	case EventHooksPassed:
		return "HooksPassed"
	case EventHooksFailed:
		return "HooksFailed"
	case EventHooksOverridden:
		return "HooksOverridden"
	case EventRetryHooks:
		return "RetryHooks"
	case EventProceedAnyway:
		return "ProceedAnyway"
	case EventMessageReady:
		return "MessageReady"
	case EventRegenerate:
		return "Regenerate"
	case EventAccept:
		return "Accept"
	case EventCancel:
		return "Cancel"
	case EventCommitSucceeded:
		return "CommitSucceeded"
	case EventCommitFailed:
		return "CommitFailed"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Transition computes the next state for an event. This is a pure function
// with no side effects; the runner performs the work between transitions.
// An event that is not legal in the current state returns an error and the
// state is unchanged.
func Transition(current State, event Event) (State, error) {
	if current.Terminal() {
		return current, fmt.Errorf("session already %s", current)
	}
	if event == EventCancel {
		// Cancellation is legal from every non-terminal state.
		return StateCancelled, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventStartWithHooks:
			return StateHooksPending, nil
		case EventStartWithoutHooks:
			return StateReviewing, nil
		}
	case StateHooksPending:
		switch event {
		case EventHooksPassed, EventHooksOverridden:
			return StateReviewing, nil
		case EventHooksFailed:
			return StateHooksFailed, nil
		}
	case StateHooksFailed:
		switch event {
		case EventRetryHooks:
			return StateHooksPending, nil
		case EventProceedAnyway:
			return StateReviewing, nil
		}
	case StateReviewing:
		if event == EventMessageReady {
			return StateAwaitingChoice, nil
		}
	case StateAwaitingChoice:
		switch event {
		case EventRegenerate:
			return StateAwaitingChoice, nil
		case EventAccept:
			return StateCommitting, nil
		}
	case StateCommitting:
		switch event {
		case EventCommitSucceeded:
			return StateCompleted, nil
		case EventCommitFailed:
			return StateCancelled, nil
		}
	}
	return current, fmt.Errorf("event %s not valid in state %s", event, current)
}
