// Package cli implements the mimic-exec command line: a libtest-compatible
// harness whose cases are commands listed in a YAML manifest.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	mimicerrors "github.com/AndreyAkinshin/mimic/internal/errors"
	"github.com/AndreyAkinshin/mimic/internal/manifest"
	"github.com/AndreyAkinshin/mimic/internal/metrics"
	"github.com/AndreyAkinshin/mimic/internal/runner"
	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

// Version is set at build time.
var Version = "dev"

// exitError carries a non-zero exit status that needs no further message,
// e.g. failed cases whose details are already in the report.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Run executes the CLI with args (without the program name) and returns the
// process exit code.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return mimicerrors.ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "mimic-exec: %v\n", err)
	return mimicerrors.GetExitCode(err)
}

// execOptions holds the flags of the root command.
type execOptions struct {
	args            mimic.Arguments
	manifestPath    string
	metricsTextfile string
}

func newRootCmd() *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "mimic-exec [OPTIONS] [FILTER]",
		Short: "Run the commands of a manifest as a libtest-style test suite",
		Long: `mimic-exec runs every case of a YAML manifest as a child process and reports
the results the way cargo test does. A case passes when its command exits with
status 0, or, for cases with a harness, when the test report it prints has no
failures.

A FILTER that equals a subcommand name (summary, version, help, completion)
must follow "--", e.g. "mimic-exec -- summary".`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			return opts.run(cmd.Flags(), positional)
		},
	}

	opts.args.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.manifestPath, "manifest", manifest.DefaultFile, "Read cases from the manifest at `PATH`")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics of the run to `PATH`")
	cmd.Flags().SortFlags = false

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return mimicerrors.Config(err.Error())
	})
	cmd.SetVersionTemplate("mimic-exec {{.Version}}\n")

	cmd.AddCommand(newSummaryCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (o *execOptions) run(fs *pflag.FlagSet, positional []string) error {
	if err := o.args.Finalize(fs, positional); err != nil {
		return err
	}

	m, err := manifest.Load(o.manifestPath)
	if err != nil {
		return err
	}

	r := runner.New(o.args.NoCapture)
	recorder := metrics.NewRecorder()
	execute := func(c mimic.Case[manifest.Case]) mimic.Outcome {
		return r.Execute(c.Data())
	}

	conclusion, err := mimic.RunTests(&o.args, m.EngineCases(), execute, mimic.WithReporter(recorder))
	if err != nil {
		return err
	}

	if o.metricsTextfile != "" && !o.args.List {
		if err := recorder.WriteTextfile(o.metricsTextfile); err != nil {
			return mimicerrors.Environmentf(err, "failed to write metrics to %s", o.metricsTextfile)
		}
	}

	if code := conclusion.ExitCode(); code != mimicerrors.ExitSuccess {
		return &exitError{code: code}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mimic-exec %s\n", Version)
		},
	}
}
