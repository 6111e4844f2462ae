package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mimicerrors "github.com/AndreyAkinshin/mimic/internal/errors"
	"github.com/AndreyAkinshin/mimic/internal/output"
	"github.com/AndreyAkinshin/mimic/internal/testparser"
)

func newSummaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary [FILE|-]",
		Short: "Summarize the output of a test harness",
		Long: `summary parses the console output of a test harness and prints a short
summary that highlights failed tests with their failure messages. Input is read
from FILE, or from stdin when FILE is omitted or "-".`,
		Example: `  cargo test 2>&1 | mimic-exec summary
  go test -v ./... > test.log; mimic-exec summary --format go test.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSummary(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), path, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "libtest", "Output format of the harness: "+strings.Join(testparser.NewRegistry().Formats(), ", "))
	return cmd
}

func runSummary(stdin io.Reader, stdout, stderr io.Writer, path, format string) error {
	registry := testparser.NewRegistry()
	parser := registry.Get(format)
	if parser == nil {
		return mimicerrors.Configf("unknown format %q (known: %s)", format, strings.Join(registry.Formats(), ", "))
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return mimicerrors.Wrap(err, "failed to read test output")
	}

	counts := parser.Parse(string(data))
	if !counts.Parsed {
		fmt.Fprintf(stderr, "mimic-exec summary: no %s test results found in input\n", parser.Name())
		return &exitError{code: mimicerrors.ExitRuntimeError}
	}

	printSummary(output.New(stdout, output.ColorAuto), &counts)

	if counts.Failed > 0 {
		return &exitError{code: mimicerrors.ExitTestsFailed}
	}
	return nil
}

// printSummary prints the counts and failed tests of a parsed report.
func printSummary(w *output.Writer, counts *testparser.Counts) {
	w.Newline()
	w.Println("Test Summary")
	w.Println("  %-12s%d", "Passed:", counts.Passed)
	if counts.Failed > 0 {
		w.Println("  %-12s%s", "Failed:", w.Colored(output.ToneFailed, fmt.Sprint(counts.Failed)))
	}
	if counts.Ignored > 0 {
		w.Println("  %-12s%d", "Ignored:", counts.Ignored)
	}
	if counts.Measured > 0 {
		w.Println("  %-12s%d", "Measured:", counts.Measured)
	}
	if counts.FilteredOut > 0 {
		w.Println("  %-12s%d", "Filtered:", counts.FilteredOut)
	}
	w.Println("  %-12s%d", "Total:", counts.Total())

	if len(counts.Failures) > 0 {
		w.Newline()
		w.Println("Failed Tests:")
		for _, f := range counts.Failures {
			if msg := firstLine(f.Message); msg != "" {
				w.Println("  %s: %s", w.Colored(output.ToneFailed, f.Name), msg)
			} else {
				w.Println("  %s", w.Colored(output.ToneFailed, f.Name))
			}
		}
	}

	w.Newline()
	if counts.Failed == 0 {
		w.Println("%s", w.Colored(output.ToneOK, fmt.Sprintf("All %d tests passed.", counts.Total())))
	} else {
		w.Println("%s", w.Colored(output.ToneFailed, fmt.Sprintf("%d of %d tests failed.", counts.Failed, counts.Total())))
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
