package mimic

// RunConfig is the part of the command line the engine consumes. It is
// read-only once a run starts.
type RunConfig struct {
	// Filter keeps only cases whose name contains it (or equals it when
	// Exact is set). Nil disables name filtering.
	Filter *string
	// Exact switches Filter and Skip from substring to equality matching.
	Exact bool
	// Skip drops cases matching any of the patterns.
	Skip []string
	// RunIgnored runs cases marked ignored.
	RunIgnored bool
	// TestOnly reports benchmarks as ignored.
	TestOnly bool
	// BenchOnly reports non-benchmarks as ignored.
	BenchOnly bool
	// TestThreads is the worker count. 1 selects serial execution on the
	// consuming goroutine; 0 means the number of CPUs.
	TestThreads int
}

// ignores reports whether a case is skipped by the run mode. The run
// function is never invoked for such cases.
func (cfg RunConfig) ignores(ignored, bench bool) bool {
	return (ignored && !cfg.RunIgnored) ||
		(bench && cfg.TestOnly) ||
		(!bench && cfg.BenchOnly)
}
