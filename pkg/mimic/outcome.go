package mimic

import "fmt"

// Status identifies the variant of an Outcome.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusIgnored
	StatusMeasured
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusIgnored:
		return "ignored"
	case StatusMeasured:
		return "measured"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Measurement is a benchmark result in nanoseconds per iteration.
// Variance is the spread printed as "+/- N".
type Measurement struct {
	Avg      uint64
	Variance uint64
}

// Outcome is the result of running one case.
type Outcome struct {
	Status Status
	// Message explains a failure.
	Message string
	// HasMessage tells an empty Message apart from no message at all.
	HasMessage bool
	// Measurement is set for StatusMeasured.
	Measurement Measurement
}

// Passed returns a passing outcome.
func Passed() Outcome { return Outcome{Status: StatusPassed} }

// Failed returns a failing outcome with a message, which may be empty.
func Failed(msg string) Outcome {
	return Outcome{Status: StatusFailed, Message: msg, HasMessage: true}
}

// FailedWithoutMessage returns a failing outcome that carries no message.
func FailedWithoutMessage() Outcome { return Outcome{Status: StatusFailed} }

// Ignored returns an ignored outcome. Run functions normally never return
// it; the engine produces it when skip rules apply.
func Ignored() Outcome { return Outcome{Status: StatusIgnored} }

// Measured returns a benchmark outcome.
func Measured(avg, variance uint64) Outcome {
	return Outcome{Status: StatusMeasured, Measurement: Measurement{Avg: avg, Variance: variance}}
}
