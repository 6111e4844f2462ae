package mimic

import (
	"fmt"
	"iter"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/AndreyAkinshin/mimic/internal/pool"
)

// Dispatch runs cases and yields their lifecycle events.
//
// Cases skipped by the run mode (see RunConfig) complete as Ignored without
// calling fn. A panic or runtime.Goexit inside fn is reported as Failed.
//
// With cfg.TestThreads == 1, or when only one CPU is available and
// TestThreads is unset, cases run strictly one after another, driven by the
// goroutine that ranges over the sequence, and events arrive in input order. Otherwise the
// cases are spread over a worker pool and events of different cases
// interleave; each case's EventStarted still precedes its EventCompleted.
// Events are always yielded on the ranging goroutine.
//
// Breaking out of the loop stops scheduling new cases. Cases already running
// on a worker are waited for before the loop statement returns. There is no
// timeout: a run function that never returns blocks its worker forever.
func Dispatch[T any](cases []Case[T], cfg RunConfig, fn func(Case[T]) Outcome) iter.Seq[Event[T]] {
	return func(yield func(Event[T]) bool) {
		workers := resolveWorkers(cfg.TestThreads)
		if workers < pool.MinWorkers {
			logger.WithField("cases", len(cases)).Debug("dispatching serially")
			dispatchSerial(cases, cfg, fn, yield)
			return
		}
		logger.WithField("cases", len(cases)).WithField("workers", workers).Debug("dispatching on worker pool")
		dispatchParallel(cases, cfg, fn, workers, yield)
	}
}

// resolveWorkers maps the requested thread count to a worker count.
func resolveWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	return max(1, runtime.NumCPU())
}

func dispatchSerial[T any](cases []Case[T], cfg RunConfig, fn func(Case[T]) Outcome, yield func(Event[T]) bool) {
	for _, c := range cases {
		if !yield(Event[T]{Kind: EventStarted, Case: c}) {
			return
		}
		if !yield(execute(c, cfg, fn)) {
			return
		}
	}
}

func dispatchParallel[T any](cases []Case[T], cfg RunConfig, fn func(Case[T]) Outcome, workers int, yield func(Event[T]) bool) {
	events := make(chan Event[T], workers)
	var stopped atomic.Bool

	tasks := make([]pool.Task, len(cases))
	for i, c := range cases {
		tasks[i] = func() {
			if stopped.Load() {
				return
			}
			events <- Event[T]{Kind: EventStarted, Case: c}
			events <- execute(c, cfg, fn)
		}
	}

	var (
		poolPanic any
		panicked  bool
	)
	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				poolPanic, panicked = r, true
			}
		}()
		pool.Run(tasks, workers)
	}()

	// Join the pool even if the consumer stops early or panics.
	defer func() {
		stopped.Store(true)
		for range events {
		}
	}()

	for ev := range events {
		if !yield(ev) {
			return
		}
	}
	if panicked {
		panic(poolPanic)
	}
}

// execute produces the completion event for one case.
func execute[T any](c Case[T], cfg RunConfig, fn func(Case[T]) Outcome) Event[T] {
	if cfg.ignores(c.ignored, c.bench) {
		return Event[T]{Kind: EventCompleted, Case: c, Outcome: Ignored()}
	}
	start := time.Now()
	outcome := invoke(c, fn)
	return Event[T]{Kind: EventCompleted, Case: c, Outcome: outcome, Elapsed: time.Since(start)}
}

// invoke calls fn on its own goroutine and waits for it, converting a panic
// or a runtime.Goexit (t.FailNow, testify require) into a failed
// outcome. The calling goroutine, whether the ranging one or a pool worker,
// always survives.
func invoke[T any](c Case[T], fn func(Case[T]) Outcome) Outcome {
	var outcome Outcome
	done := make(chan struct{})
	go func() {
		defer close(done)
		returned := false
		defer func() {
			if r := recover(); r != nil {
				outcome = Failed(fmt.Sprintf("test panicked: %v", r))
			} else if !returned {
				outcome = Failed("test called runtime.Goexit")
			}
		}()
		outcome = fn(c)
		returned = true
	}()
	<-done
	return outcome
}
