package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	libtestResultRegex = regexp.MustCompile(`(?m)^test result: (?:ok|FAILED)\.\s*(\d+) passed;\s*(\d+) failed;\s*(\d+) ignored(?:;\s*(\d+) measured)?(?:;\s*(\d+) filtered out)?`)
	libtestFailedLine  = regexp.MustCompile(`(?m)^test (?:\[[^\]]*\] )?(.+?)\s+\.\.\. FAILED$`)
	libtestBlockHeader = regexp.MustCompile(`^---- (.+?) (?:stdout )?----$`)
)

// LibtestParser parses reports in the format of Rust's libtest, which is
// also what mimic harnesses print.
type LibtestParser struct{}

// Name returns the parser name.
func (p *LibtestParser) Name() string {
	return "libtest"
}

// Parse aggregates every summary line in output, so the combined report of
// several harness binaries sums up:
//
//	test result: ok. 47 passed; 0 failed; 3 ignored; 0 measured; 0 filtered out; finished in 0.12s
//	test result: FAILED. 45 passed; 2 failed; 3 ignored; 1 measured; 5 filtered out
//
// Failed test names and messages come from the "---- name ----" blocks of
// the failures section, falling back to "test name ... FAILED" lines.
func (p *LibtestParser) Parse(output string) Counts {
	counts := Counts{}

	matches := libtestResultRegex.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return counts
	}

	for _, match := range matches {
		counts.Passed += atoi(match[1])
		counts.Failed += atoi(match[2])
		counts.Ignored += atoi(match[3])
		counts.Measured += atoi(match[4])
		counts.FilteredOut += atoi(match[5])
	}
	counts.Parsed = true

	if counts.Failed > 0 {
		counts.Failures = p.extractFailures(output)
	}
	return counts
}

// extractFailures reads the failures section. Each block runs from its
// "---- name ----" header to the next header or the closing "failures:"
// list.
func (p *LibtestParser) extractFailures(output string) []Failure {
	var failures []Failure
	seen := map[string]bool{}

	lines := strings.Split(output, "\n")
	for i := 0; i < len(lines); i++ {
		m := libtestBlockHeader.FindStringSubmatch(strings.TrimRight(lines[i], "\r"))
		if m == nil {
			continue
		}
		var msg []string
		for i+1 < len(lines) {
			next := strings.TrimRight(lines[i+1], "\r")
			if libtestBlockHeader.MatchString(next) || next == "failures:" {
				break
			}
			msg = append(msg, next)
			i++
		}
		name := m[1]
		if !seen[name] {
			seen[name] = true
			failures = append(failures, Failure{Name: name, Message: strings.TrimSpace(strings.Join(msg, "\n"))})
		}
	}

	// Terse and some custom harnesses print no blocks.
	for _, m := range libtestFailedLine.FindAllStringSubmatch(output, -1) {
		name := strings.TrimSpace(m[1])
		if !seen[name] {
			seen[name] = true
			failures = append(failures, Failure{Name: name})
		}
	}

	return failures
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
