// Package mimic is a test-execution engine for custom test harnesses that
// should look and behave like `cargo test`.
//
// A harness supplies a list of cases and a function that runs one case.
// mimic applies the libtest command-line filters, runs the surviving cases
// serially or on a worker pool, prints a libtest-style report, and returns
// a Conclusion whose exit code follows the libtest convention.
//
// The smallest harness uses closures as cases:
//
//	func main() {
//	    mimic.Main([]mimic.Trial{
//	        mimic.Test("parse::empty", func() error { return nil }),
//	        mimic.Test("parse::nested", checkNested).WithKind("parser"),
//	        mimic.Bench("parse::large", benchLarge),
//	    })
//	}
//
// Harnesses with their own case data use RunTests with a run function, or
// drive Filter, Dispatch and Collect directly.
package mimic
