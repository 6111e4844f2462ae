package mimic

// Case is one test or benchmark. Name and kind are fixed at construction;
// the With* methods return modified copies. Data is owned by the caller and
// never inspected by the engine.
type Case[T any] struct {
	name    string
	kind    string
	ignored bool
	bench   bool
	data    T
}

// NewTest creates a pass/fail case.
func NewTest[T any](name string, data T) Case[T] {
	return Case[T]{name: name, data: data}
}

// NewBench creates a benchmark case.
func NewBench[T any](name string, data T) Case[T] {
	return Case[T]{name: name, bench: true, data: data}
}

// Name returns the display name, which filters match against.
func (c Case[T]) Name() string { return c.name }

// Kind returns the grouping label, or "" for none.
func (c Case[T]) Kind() string { return c.kind }

// IsIgnored reports whether the case is excluded from default runs.
func (c Case[T]) IsIgnored() bool { return c.ignored }

// IsBench reports whether the case is a benchmark.
func (c Case[T]) IsBench() bool { return c.bench }

// Data returns the caller-owned payload.
func (c Case[T]) Data() T { return c.data }

// WithKind returns a copy of c with the given kind. The kind is printed in
// brackets before the name, e.g. "test [tidy] src/lib.rs ... ok".
func (c Case[T]) WithKind(kind string) Case[T] {
	c.kind = kind
	return c
}

// WithIgnored returns a copy of c with the ignored flag set to ignored.
func (c Case[T]) WithIgnored(ignored bool) Case[T] {
	c.ignored = ignored
	return c
}

// TrialFunc runs a closure-based case.
type TrialFunc func() Outcome

// Trial is a case that carries its own run function.
type Trial = Case[TrialFunc]

// Test creates a trial that passes when fn returns nil and fails with the
// error text otherwise.
func Test(name string, fn func() error) Trial {
	return NewTest(name, TrialFunc(func() Outcome {
		if err := fn(); err != nil {
			return Failed(err.Error())
		}
		return Passed()
	}))
}

// Bench creates a benchmark trial. fn is only invoked when benchmarks are
// not excluded by --test.
func Bench(name string, fn func() (Measurement, error)) Trial {
	return NewBench(name, TrialFunc(func() Outcome {
		m, err := fn()
		if err != nil {
			return Failed(err.Error())
		}
		return Measured(m.Avg, m.Variance)
	}))
}

func runTrial(t Trial) Outcome {
	return t.Data()()
}
