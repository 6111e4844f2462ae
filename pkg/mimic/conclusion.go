package mimic

import (
	"iter"
	"os"

	"github.com/AndreyAkinshin/mimic/internal/errors"
)

// Failure records a failed case and its optional message. The case payload
// is not kept; Conclusion is independent of the payload type.
type Failure struct {
	Name       string
	Kind       string
	Message    string
	HasMessage bool
}

// Conclusion is the final tally of a run. A listing-only run returns the
// zero Conclusion.
type Conclusion struct {
	NumFilteredOut uint64
	NumPassed      uint64
	NumFailed      uint64
	NumIgnored     uint64
	NumMeasured    uint64
	// Failures lists failed cases in the order their outcomes arrived.
	Failures []Failure
}

// HasFailed reports whether any case failed.
func (c Conclusion) HasFailed() bool {
	return c.NumFailed > 0
}

// ExitCode returns ExitSuccess, or ExitFailure when any case failed.
func (c Conclusion) ExitCode() int {
	if c.HasFailed() {
		return ExitFailure
	}
	return ExitSuccess
}

// Exit terminates the process with c.ExitCode().
func (c Conclusion) Exit() {
	os.Exit(c.ExitCode())
}

// Aggregator accumulates completed outcomes into a Conclusion. It is not
// safe for concurrent use; Dispatch delivers events on a single goroutine.
type Aggregator struct {
	c Conclusion
}

// NewAggregator starts a tally with the filtered-out count from Filter.
func NewAggregator(filteredOut uint64) *Aggregator {
	return &Aggregator{c: Conclusion{NumFilteredOut: filteredOut}}
}

// Record adds one completed outcome.
func (a *Aggregator) Record(name, kind string, o Outcome) {
	switch o.Status {
	case StatusPassed:
		a.c.NumPassed++
	case StatusFailed:
		a.c.NumFailed++
		a.c.Failures = append(a.c.Failures, Failure{Name: name, Kind: kind, Message: o.Message, HasMessage: o.HasMessage})
	case StatusIgnored:
		a.c.NumIgnored++
	case StatusMeasured:
		a.c.NumMeasured++
	}
}

// Conclusion returns the tally so far. Later calls to Record do not affect
// the returned value.
func (a *Aggregator) Conclusion() Conclusion {
	c := a.c
	c.Failures = append([]Failure(nil), a.c.Failures...)
	return c
}

// Collect drains events and returns the resulting Conclusion.
func Collect[T any](events iter.Seq[Event[T]], filteredOut uint64) Conclusion {
	agg := NewAggregator(filteredOut)
	for ev := range events {
		if ev.Kind == EventCompleted {
			agg.Record(ev.Case.name, ev.Case.kind, ev.Outcome)
		}
	}
	return agg.Conclusion()
}

// exitCodeOf maps a harness error to a process exit code.
func exitCodeOf(err error) int {
	return errors.GetExitCode(err)
}
