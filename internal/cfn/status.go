package cfn

import (
	"strings"
)

// State is the convergence state derived from a provider status.
type State int

const (
	// InProgress is any status that is not terminal.
	InProgress State = iota
	Succeeded
	RolledBack
	Deleted
	Failed
)

func (state State) String() string {
	switch state {
	case Succeeded:
		return "succeeded"
	case RolledBack:
		return "rolled back"
	case Deleted:
		return "deleted"
	case Failed:
		return "failed"
	case InProgress:
	}

	return "in progress"
}

// Terminal returns true if no further transition is expected without a new mutation.
func (state State) Terminal() bool {
	return state != InProgress
}

// Healthy returns true if the resource reached the state that was asked for.
func (state State) Healthy() bool {
	return state == Succeeded
}

// Convergence is the outcome of a wait: the last observed status and the state derived from it.
type Convergence struct {
	Status string
	State  State
}

// StackState classifies a stack status such as CREATE_COMPLETE or UPDATE_ROLLBACK_IN_PROGRESS.
func StackState(status string) State {
	switch {
	case strings.Contains(status, "IN_PROGRESS"):
		return InProgress
	case strings.HasSuffix(status, "ROLLBACK_COMPLETE"):
		return RolledBack
	case status == "DELETE_COMPLETE":
		return Deleted
	case strings.HasSuffix(status, "COMPLETE"):
		return Succeeded
	case strings.HasSuffix(status, "FAILED"):
		return Failed
	}

	return InProgress
}

// StackSetState classifies a stack set status.
func StackSetState(status string) State {
	switch status {
	case "ACTIVE":
		return Succeeded
	case "DELETED":
		return Deleted
	}

	return InProgress
}

// OperationState classifies a stack set operation status.
func OperationState(status string) State {
	switch status {
	case "SUCCEEDED":
		return Succeeded
	case "FAILED", "STOPPED":
		return Failed
	}

	return InProgress
}
