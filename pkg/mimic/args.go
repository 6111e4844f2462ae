package mimic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	mimicerrors "github.com/AndreyAkinshin/mimic/internal/errors"
)

// EnvTestThreads names the environment variable consulted when
// --test-threads is not given.
const EnvTestThreads = "MIMIC_TEST_THREADS"

// maxTestThreads caps MIMIC_TEST_THREADS. Larger values are almost always
// a typo, and each worker is a goroutine blocked on a case.
const maxTestThreads = 256

// ErrHelp is returned by ParseArgs when -h or --help was given.
var ErrHelp = pflag.ErrHelp

const afterHelp = `By default, all tests are run in parallel. This can be altered with the
--test-threads flag or the MIMIC_TEST_THREADS environment variable when running
tests (set it to 1).

Output of the tests is not captured by mimic; the --nocapture flag is accepted
for compatibility and passed on to harnesses that capture on their own.`

// ColorSetting is the value of --color.
type ColorSetting int

const (
	// ColorAuto colorizes if the output is a terminal.
	ColorAuto ColorSetting = iota
	// ColorAlways always colorizes, including into a log file.
	ColorAlways
	// ColorNever never colorizes.
	ColorNever
)

func (c ColorSetting) String() string {
	switch c {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// Set implements pflag.Value.
func (c *ColorSetting) Set(s string) error {
	switch s {
	case "auto":
		*c = ColorAuto
	case "always":
		*c = ColorAlways
	case "never":
		*c = ColorNever
	default:
		return fmt.Errorf("must be one of auto, always, never")
	}
	return nil
}

// Type implements pflag.Value.
func (c *ColorSetting) Type() string { return "auto|always|never" }

// FormatSetting is the value of --format.
type FormatSetting int

const (
	// FormatPretty prints one line per case.
	FormatPretty FormatSetting = iota
	// FormatTerse prints one character per case.
	FormatTerse
	// FormatJSON prints newline-delimited JSON events.
	FormatJSON
)

func (f FormatSetting) String() string {
	switch f {
	case FormatTerse:
		return "terse"
	case FormatJSON:
		return "json"
	default:
		return "pretty"
	}
}

// Set implements pflag.Value.
func (f *FormatSetting) Set(s string) error {
	switch s {
	case "pretty":
		*f = FormatPretty
	case "terse":
		*f = FormatTerse
	case "json":
		*f = FormatJSON
	default:
		return fmt.Errorf("must be one of pretty, terse, json")
	}
	return nil
}

// Type implements pflag.Value.
func (f *FormatSetting) Type() string { return "pretty|terse|json" }

// Arguments holds the libtest-compatible command line of a harness.
type Arguments struct {
	// IncludeIgnored runs ignored cases along with the others.
	IncludeIgnored bool
	// Ignored runs ignored cases; with --list only ignored cases are listed.
	Ignored bool
	// Test reports benchmarks as ignored.
	Test bool
	// Bench reports non-benchmarks as ignored.
	Bench bool
	// List prints the selected cases instead of running them.
	List bool
	// NoCapture is accepted for compatibility. mimic never captures output;
	// run functions that do may consult it.
	NoCapture bool
	// Exact makes the filter and --skip patterns match whole names.
	Exact bool
	// Quiet is an alias for --format=terse.
	Quiet bool
	// TestThreads is the worker count; 0 means one per CPU.
	TestThreads int
	// Logfile redirects the report to a file.
	Logfile string
	// Skip lists name patterns to exclude.
	Skip []string
	Color  ColorSetting
	Format FormatSetting
	// Filter is the positional FILTER argument, nil when absent.
	Filter *string
}

// AddFlags registers the harness flags on fs.
func (a *Arguments) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&a.IncludeIgnored, "include-ignored", false, "Run ignored and not ignored tests")
	fs.BoolVar(&a.Ignored, "ignored", false, "Run ignored tests")
	fs.BoolVar(&a.Test, "test", false, "Run tests and not benchmarks")
	fs.BoolVar(&a.Bench, "bench", false, "Run benchmarks instead of tests")
	fs.BoolVar(&a.List, "list", false, "List all tests and benchmarks")
	fs.BoolVar(&a.NoCapture, "nocapture", false, "don't capture stdout/stderr of each task, allow printing directly")
	fs.BoolVar(&a.Exact, "exact", false, "Exactly match filters rather than by substring")
	fs.BoolVarP(&a.Quiet, "quiet", "q", false, "Display one character per test instead of one line. Alias to --format=terse")
	fs.IntVar(&a.TestThreads, "test-threads", 0, "Number of threads used for running tests in parallel")
	fs.StringVar(&a.Logfile, "logfile", "", "Write logs to the specified `PATH` instead of stdout")
	fs.StringArrayVar(&a.Skip, "skip", nil, "Skip tests whose names contain `FILTER` (this flag can be used multiple times)")
	fs.Var(&a.Color, "color", "Configure coloring of output: auto = colorize if stdout is a tty, always, never")
	fs.Var(&a.Format, "format", "Configure formatting of output: pretty = one line per test, terse = one character per test, json = JSON events")
}

// Finalize validates the parsed flags and stores the positional filter.
// fs must be the flag set AddFlags registered on.
func (a *Arguments) Finalize(fs *pflag.FlagSet, positional []string) error {
	switch len(positional) {
	case 0:
	case 1:
		filter := positional[0]
		a.Filter = &filter
	default:
		return mimicerrors.Configf("unexpected argument %q: only one FILTER may be given", positional[1])
	}

	if a.Test && a.Bench {
		return mimicerrors.Config("--test and --bench cannot be used together")
	}
	if a.Quiet && fs.Changed("format") {
		return mimicerrors.Config("--quiet and --format cannot be used together")
	}

	if fs.Changed("test-threads") {
		if a.TestThreads < 1 {
			return mimicerrors.Configf("argument for --test-threads must be a positive number, got %d", a.TestThreads)
		}
	} else {
		a.TestThreads = testThreadsFromEnv()
	}

	return nil
}

// testThreadsFromEnv reads MIMIC_TEST_THREADS. Unset or invalid values
// yield 0 (one worker per CPU); invalid values also log a warning.
func testThreadsFromEnv() int {
	env := strings.TrimSpace(os.Getenv(EnvTestThreads))
	if env == "" {
		return 0
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		logger.Warnf("invalid %s value %q (not a number), using default", EnvTestThreads, env)
		return 0
	}
	if n < 1 || n > maxTestThreads {
		logger.Warnf("%s=%d out of range [1-%d], using default", EnvTestThreads, n, maxTestThreads)
		return 0
	}
	return n
}

// ParseArgs parses argv (without the program name). It returns ErrHelp
// when help was requested.
func ParseArgs(argv []string) (*Arguments, error) {
	a := &Arguments{}
	fs := pflag.NewFlagSet("mimic", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	a.AddFlags(fs)

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, mimicerrors.Config(err.Error())
	}
	if err := a.Finalize(fs, fs.Args()); err != nil {
		return nil, err
	}
	return a, nil
}

// Usage returns the help text for a harness binary called name.
func Usage(name string) string {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	(&Arguments{}).AddFlags(fs)

	var b strings.Builder
	fmt.Fprintf(&b, "USAGE: %s [OPTIONS] [FILTER]\n\n", name)
	b.WriteString("OPTIONS:\n")
	b.WriteString(fs.FlagUsages())
	b.WriteString("\n")
	b.WriteString(afterHelp)
	b.WriteString("\n")
	return b.String()
}

// FromArgs parses the process arguments. It prints usage and exits 0 on
// --help, and prints the error and exits with ExitUsage on invalid input.
func FromArgs() *Arguments {
	a, err := ParseArgs(os.Args[1:])
	if errors.Is(err, ErrHelp) {
		fmt.Print(Usage(filepath.Base(os.Args[0])))
		os.Exit(ExitSuccess)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCodeOf(err))
	}
	return a
}

// RunConfig returns the engine configuration selected by the arguments.
func (a *Arguments) RunConfig() RunConfig {
	return RunConfig{
		Filter:      a.Filter,
		Exact:       a.Exact,
		Skip:        append([]string(nil), a.Skip...),
		RunIgnored:  a.Ignored || a.IncludeIgnored,
		TestOnly:    a.Test,
		BenchOnly:   a.Bench,
		TestThreads: a.TestThreads,
	}
}

// format resolves --quiet into the effective output format.
func (a *Arguments) format() FormatSetting {
	if a.Quiet {
		return FormatTerse
	}
	return a.Format
}
