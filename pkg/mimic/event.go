package mimic

import "time"

// EventKind identifies a lifecycle notification.
type EventKind int

const (
	// EventStarted is emitted right before a case runs.
	EventStarted EventKind = iota
	// EventCompleted carries the outcome of a case.
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is emitted by Dispatch. For each case, its EventStarted precedes its
// EventCompleted. Across cases, order is input order in serial mode and
// unspecified in parallel mode.
type Event[T any] struct {
	Kind EventKind
	Case Case[T]
	// Outcome and Elapsed are set on EventCompleted.
	Outcome Outcome
	Elapsed time.Duration
}
