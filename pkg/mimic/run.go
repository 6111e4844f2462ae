package mimic

import (
	"fmt"
	"os"
	"time"

	"github.com/AndreyAkinshin/mimic/internal/pool"
)

// Reporter observes a run. All methods are called on the goroutine that
// called RunTests, so implementations need no locking.
type Reporter interface {
	// CaseStarted is called right before a case runs.
	CaseStarted(name, kind string)
	// CaseCompleted is called with the outcome of a case.
	CaseCompleted(name, kind string, outcome Outcome, elapsed time.Duration)
	// RunFinished is called once with the final tally.
	RunFinished(c Conclusion)
}

// Option configures RunTests.
type Option func(*runOptions)

type runOptions struct {
	reporters []Reporter
}

// WithReporter adds r as an observer next to the built-in report printer.
func WithReporter(r Reporter) Option {
	return func(o *runOptions) {
		o.reporters = append(o.reporters, r)
	}
}

// RunTests filters cases according to args, runs the selected ones with fn
// and prints a libtest-style report.
//
// In list mode (--list) the selected cases are printed instead of run and
// the zero Conclusion is returned. An error is returned only when the report
// destination cannot be opened.
func RunTests[T any](args *Arguments, cases []Case[T], fn func(Case[T]) Outcome, opts ...Option) (Conclusion, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := args.RunConfig()
	selected, filteredOut := Filter(cases, cfg)

	serial := resolveWorkers(cfg.TestThreads) < pool.MinWorkers
	p, err := newPrinter(args, selected, serial)
	if err != nil {
		return Conclusion{}, err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.WithError(err).Warn("failed to close logfile")
		}
	}()

	if args.List {
		for _, c := range selected {
			// --ignored narrows the listing to ignored cases.
			if args.Ignored && !c.ignored {
				continue
			}
			p.listed(c.name, c.kind, c.bench)
		}
		return Conclusion{}, nil
	}

	reporters := append([]Reporter{p}, o.reporters...)
	agg := NewAggregator(filteredOut)

	p.title(len(selected))
	for ev := range Dispatch(selected, cfg, fn) {
		name, kind := ev.Case.name, ev.Case.kind
		switch ev.Kind {
		case EventStarted:
			for _, r := range reporters {
				r.CaseStarted(name, kind)
			}
		case EventCompleted:
			agg.Record(name, kind, ev.Outcome)
			for _, r := range reporters {
				r.CaseCompleted(name, kind, ev.Outcome, ev.Elapsed)
			}
		}
	}

	conclusion := agg.Conclusion()
	for _, r := range reporters {
		r.RunFinished(conclusion)
	}
	return conclusion, nil
}

// Run runs closure-based trials. See RunTests.
func Run(args *Arguments, trials []Trial, opts ...Option) (Conclusion, error) {
	return RunTests(args, trials, runTrial, opts...)
}

// Main parses the process arguments, runs trials and exits the process with
// the libtest exit code.
func Main(trials []Trial) {
	args := FromArgs()
	c, err := Run(args, trials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCodeOf(err))
	}
	c.Exit()
}
