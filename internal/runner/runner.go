// Package runner executes manifest cases as child processes and turns their
// results into mimic outcomes.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"

	"github.com/AndreyAkinshin/mimic/internal/logging"
	"github.com/AndreyAkinshin/mimic/internal/manifest"
	"github.com/AndreyAkinshin/mimic/internal/testparser"
	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

const (
	// tailLines is how much captured output a failure message carries.
	tailLines = 20
	// waitDelay bounds how long a killed command's grandchildren may keep
	// the output pipes open.
	waitDelay = 2 * time.Second
)

// Runner executes cases. Execute is safe for concurrent use as long as
// Stream is.
type Runner struct {
	// NoCapture streams child output to Stream while it runs. Output is
	// still buffered for harness parsing.
	NoCapture bool
	// Stream receives child output under NoCapture. Defaults to os.Stderr.
	Stream io.Writer

	parsers *testparser.Registry
	log     *logrus.Logger
}

// New creates a Runner with the built-in harness parsers.
func New(noCapture bool) *Runner {
	return &Runner{
		NoCapture: noCapture,
		Stream:    os.Stderr,
		parsers:   testparser.NewRegistry(),
		log:       logging.New(),
	}
}

// Execute runs c and classifies the result:
//   - plain case: exit status 0 passes, anything else fails with the tail
//     of the output;
//   - harness case: the output is parsed as a test report and fails if the
//     report has failures or cannot be found;
//   - benchmark: the command runs c.Iterations times and the wall time per
//     run is reported.
func (r *Runner) Execute(c manifest.Case) mimic.Outcome {
	argv, err := shellquote.Split(c.Run)
	if err != nil {
		return mimic.Failed(fmt.Sprintf("invalid command %q: %v", c.Run, err))
	}
	if len(argv) == 0 {
		return mimic.Failed("empty command")
	}

	if c.Bench {
		return r.bench(c, argv)
	}

	res := r.run(c, argv)
	if c.Harness != "" {
		return r.harnessOutcome(c, res)
	}
	if res.err != nil {
		return mimic.Failed(res.failureMessage())
	}
	return mimic.Passed()
}

type result struct {
	output  string
	elapsed time.Duration
	err     error
	timeout time.Duration
}

func (res result) failureMessage() string {
	var b strings.Builder
	if res.timeout > 0 {
		fmt.Fprintf(&b, "timed out after %s", res.timeout)
	} else {
		b.WriteString(res.err.Error())
	}
	if t := tail(res.output, tailLines); t != "" {
		b.WriteString("\n")
		b.WriteString(t)
	}
	return b.String()
}

// run executes argv once in the case's directory and environment.
func (r *Runner) run(c manifest.Case, argv []string) result {
	ctx := context.Background()
	timeout := time.Duration(c.Timeout)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = buildEnv(c.Env)
	cmd.WaitDelay = waitDelay

	var buf bytes.Buffer
	var w io.Writer = &buf
	if r.NoCapture && r.Stream != nil {
		w = io.MultiWriter(&buf, r.Stream)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	r.log.WithFields(logrus.Fields{"case": c.Name, "dir": c.Dir}).Debugf("running %s", c.Run)
	start := time.Now()
	err := cmd.Run()
	res := result{output: buf.String(), elapsed: time.Since(start), err: err}

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.timeout = timeout
	}
	r.log.WithFields(logrus.Fields{"case": c.Name, "elapsed": res.elapsed}).WithError(err).Debug("case finished")
	return res
}

func (r *Runner) harnessOutcome(c manifest.Case, res result) mimic.Outcome {
	if res.timeout > 0 {
		return mimic.Failed(res.failureMessage())
	}

	parser := r.parsers.Get(c.Harness)
	if parser == nil {
		return mimic.Failed(fmt.Sprintf("unknown harness %q", c.Harness))
	}

	counts := parser.Parse(res.output)
	if !counts.Parsed {
		if res.err != nil {
			return mimic.Failed(res.failureMessage())
		}
		return mimic.Failed(fmt.Sprintf("no %s report found in output", parser.Name()))
	}

	if counts.Failed > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "%d of %d tests failed:", counts.Failed, counts.Total())
		for _, f := range counts.Failures {
			b.WriteString("\n    ")
			b.WriteString(f.Name)
			if f.Message != "" {
				b.WriteString(": ")
				b.WriteString(firstLine(f.Message))
			}
		}
		return mimic.Failed(b.String())
	}
	if res.err != nil {
		return mimic.Failed(fmt.Sprintf("report has no failures but the command failed: %s", res.failureMessage()))
	}
	return mimic.Passed()
}

// bench runs the command c.Iterations times. The variance is the spread
// between the fastest and slowest run.
func (r *Runner) bench(c manifest.Case, argv []string) mimic.Outcome {
	iterations := max(c.Iterations, 1)
	samples := make([]uint64, 0, iterations)
	for range iterations {
		res := r.run(c, argv)
		if res.err != nil {
			return mimic.Failed(res.failureMessage())
		}
		samples = append(samples, uint64(res.elapsed.Nanoseconds()))
	}

	var sum uint64
	for _, s := range samples {
		sum += s
	}
	return mimic.Measured(sum/uint64(len(samples)), slices.Max(samples)-slices.Min(samples))
}

// buildEnv returns the process environment with extra applied on top, in
// sorted key order.
func buildEnv(extra map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// tail returns the last n lines of s, ignoring trailing newlines.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
