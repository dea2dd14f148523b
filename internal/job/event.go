// Package job runs background tasks and reports their progress as events.
package job

import "time"

// Kind classifies an Event.
type Kind string

const (
	KindProgress  Kind = "progress"
	KindCompleted Kind = "completed"
	KindFailed    Kind = "failed"
	KindCancelled Kind = "cancelled"
)

// State is a step in a job's state machine.
type State string

const (
	StateIdle            State = "idle"
	StateExtractingAudio State = "extracting_audio"
	StateTranscribing    State = "transcribing"
	StateFormatting      State = "formatting"
	StateDone            State = "done"
	StateRunning         State = "running"
	StateCompleted       State = "completed"
	StateCancelled       State = "cancelled"
	StateFailed          State = "failed"
)

// Terminal reports whether s ends a job.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateCompleted, StateCancelled, StateFailed:
		return true
	}
	return false
}

// Event is a notification sent from a running job to its observer.
type Event struct {
	JobID    string    `json:"job_id"`
	Type     string    `json:"type"`
	Kind     Kind      `json:"kind"`
	State    State     `json:"state"`
	Progress int       `json:"progress"`
	Done     int       `json:"done,omitempty"`
	Total    int       `json:"total,omitempty"`
	Result   any       `json:"result,omitempty"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

// Outcome is the final result of a job.
type Outcome struct {
	State  State
	Result any
	Err    error
}
