package testparser

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	goPassRegex     = regexp.MustCompile(`(?m)^\s*---\s+PASS:\s+`)
	goFailRegex     = regexp.MustCompile(`(?m)^\s*---\s+FAIL:\s+(\S+)`)
	goSkipRegex     = regexp.MustCompile(`(?m)^\s*---\s+SKIP:\s+`)
	goBenchRegex    = regexp.MustCompile(`(?m)^Benchmark\S+\s+\d+\s+[\d.]+ ns/op`)
	goErrorLine     = regexp.MustCompile(`^\s+\S+\.go:\d+:`)
	goFailLineRegex = regexp.MustCompile(`^\s*---\s+FAIL:\s+(\S+)\s+`)
)

// GoParser parses the verbose output of `go test -v`.
type GoParser struct{}

// Name returns the parser name.
func (p *GoParser) Name() string {
	return "go"
}

// Parse counts result lines. Subtests are counted individually:
//
//	--- PASS: TestFoo (0.00s)
//	--- FAIL: TestBar (0.01s)
//	--- SKIP: TestBaz (0.00s)
//	BenchmarkQux-8   	 1000000	      1043 ns/op
//
// Output without per-test lines (non-verbose runs) is reported unparsed.
func (p *GoParser) Parse(output string) Counts {
	counts := Counts{
		Passed:   len(goPassRegex.FindAllString(output, -1)),
		Ignored:  len(goSkipRegex.FindAllString(output, -1)),
		Measured: len(goBenchRegex.FindAllString(output, -1)),
	}

	failMatches := goFailRegex.FindAllStringSubmatch(output, -1)
	counts.Failed = len(failMatches)
	if counts.Failed > 0 {
		lines := strings.Split(output, "\n")
		for _, match := range failMatches {
			counts.Failures = append(counts.Failures, Failure{
				Name:    match[1],
				Message: findFailureReason(lines, match[1]),
			})
		}
	}

	counts.Parsed = counts.Total() > 0
	return counts
}

// isTestBoundary reports whether line starts a test run or reports the
// result of a test.
func isTestBoundary(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "=== RUN") ||
		strings.HasPrefix(trimmed, "--- PASS:") ||
		strings.HasPrefix(trimmed, "--- FAIL:") ||
		strings.HasPrefix(trimmed, "--- SKIP:")
}

// findFailureReason returns the first "file.go:N: message" line logged by
// the named test, without its location prefix.
//
//	=== RUN   TestFoo
//	    file_test.go:15: expected X, got Y
//	--- FAIL: TestFoo (0.00s)
func findFailureReason(lines []string, testName string) string {
	failLineIdx := -1
	for i, line := range lines {
		match := goFailLineRegex.FindStringSubmatch(line)
		if match != nil && match[1] == testName {
			failLineIdx = i
			break
		}
	}
	if failLineIdx == -1 {
		return ""
	}

	reason := ""
	for i := failLineIdx - 1; i >= 0; i-- {
		line := lines[i]
		if isTestBoundary(line) {
			break
		}
		if goErrorLine.MatchString(line) {
			reason = strings.TrimSpace(line)
		}
	}
	if reason == "" {
		return ""
	}

	if idx := strings.Index(reason, ".go:"); idx != -1 {
		afterFile := reason[idx+4:]
		if colonIdx := strings.Index(afterFile, ": "); colonIdx != -1 {
			reason = strings.TrimSpace(afterFile[colonIdx+2:])
		}
	}

	// Keep one-line summaries readable on an 80 column terminal.
	const maxWidth = 80
	return runewidth.Truncate(reason, maxWidth, "...")
}
