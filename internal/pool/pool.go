// Package pool provides a scoped, fixed-size worker pool.
//
// Workers share a single mutex-guarded cursor over the task list. A worker
// claims the next unclaimed task, runs it to completion, and claims again
// until the list is exhausted. Run returns only after every worker has
// exited, so no task outlives the call.
package pool

import (
	"fmt"
	"sync"
)

// MinWorkers is the smallest pool size Run accepts. A single worker is
// handled by callers on their own goroutine instead.
const MinWorkers = 2

// Task is a unit of work. Results travel out of band.
type Task func()

// cursor hands out tasks one at a time. Each task is returned at most once.
type cursor struct {
	mu    sync.Mutex
	tasks []Task
	next  int
}

func (c *cursor) claim() (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= len(c.tasks) {
		return nil, false
	}
	t := c.tasks[c.next]
	c.tasks[c.next] = nil
	c.next++
	return t, true
}

// Run executes tasks on workers goroutines and blocks until all of them
// have finished.
//
// Run panics if workers < MinWorkers; that is a caller bug, not a runtime
// condition. If a task panics, the remaining workers keep draining the
// queue and the first panic value is re-raised on the calling goroutine
// after the join. A task that calls runtime.Goexit ends its worker, which
// is replaced.
func Run(tasks []Task, workers int) {
	if workers < MinWorkers {
		panic(fmt.Sprintf("pool: Run called with %d workers, need at least %d", workers, MinWorkers))
	}

	c := &cursor{tasks: append([]Task(nil), tasks...)}

	var (
		wg         sync.WaitGroup
		panicOnce  sync.Once
		panicValue any
		panicked   bool
	)

	var worker func()
	worker = func() {
		drained := false
		defer func() {
			// A task called runtime.Goexit. Start a replacement before
			// releasing this worker's slot so the queue is still drained.
			if !drained {
				wg.Add(1)
				go worker()
			}
			wg.Done()
		}()
		for {
			task, ok := c.claim()
			if !ok {
				drained = true
				return
			}
			runTask(task, func(v any) {
				panicOnce.Do(func() {
					panicValue = v
					panicked = true
				})
			})
		}
	}

	wg.Add(workers)
	for range workers {
		go worker()
	}
	wg.Wait()

	if panicked {
		panic(panicValue)
	}
}

// runTask runs a single task, reporting a panic through onPanic instead of
// letting it kill the worker goroutine.
func runTask(task Task, onPanic func(any)) {
	defer func() {
		if r := recover(); r != nil {
			onPanic(r)
		}
	}()
	task()
}
