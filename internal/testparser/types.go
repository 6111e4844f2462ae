// Package testparser extracts result counts from the reports of test
// harnesses run by mimic-exec.
package testparser

// Failure holds information about a single failed test.
type Failure struct {
	Name    string // Test name (e.g., "parser::nested" or "TestFoo/sub")
	Message string // Failure message, empty if the report has none
}

// Counts holds parsed result counts.
type Counts struct {
	Passed      int
	Failed      int
	Ignored     int
	Measured    int
	FilteredOut int
	Parsed      bool      // true if at least one summary was found
	Failures    []Failure // details of failed tests, in report order
}

// Total returns the number of tests that were reported as run or ignored.
func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Ignored + c.Measured
}

// Add adds other to c. Parsed is sticky: the sum is parsed if either
// part was.
func (c *Counts) Add(other *Counts) {
	if other == nil {
		return
	}
	c.Passed += other.Passed
	c.Failed += other.Failed
	c.Ignored += other.Ignored
	c.Measured += other.Measured
	c.FilteredOut += other.FilteredOut
	c.Failures = append(c.Failures, other.Failures...)
	if other.Parsed {
		c.Parsed = true
	}
}

// Parser extracts counts from the output of one kind of harness.
type Parser interface {
	// Parse extracts counts from the harness output.
	Parse(output string) Counts
	// Name returns the harness format name.
	Name() string
}
