package mimic

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_Defaults(t *testing.T) {
	t.Setenv(EnvTestThreads, "")

	args, err := ParseArgs(nil)
	require.NoError(t, err)

	assert.Nil(t, args.Filter)
	assert.Equal(t, ColorAuto, args.Color)
	assert.Equal(t, FormatPretty, args.format())
	assert.Zero(t, args.TestThreads)
	assert.Equal(t, RunConfig{}, args.RunConfig())
}

func TestParseArgs_Flags(t *testing.T) {
	t.Parallel()

	args, err := ParseArgs([]string{
		"--include-ignored", "--test", "--exact", "--nocapture",
		"--test-threads", "3", "--logfile", "out.log",
		"--skip", "slow", "--skip=flaky",
		"--color=always", "--format", "json",
		"parser",
	})
	require.NoError(t, err)

	assert.True(t, args.IncludeIgnored)
	assert.True(t, args.NoCapture)
	assert.Equal(t, "out.log", args.Logfile)
	assert.Equal(t, ColorAlways, args.Color)
	assert.Equal(t, FormatJSON, args.format())

	filter := "parser"
	assert.Equal(t, RunConfig{
		Filter:      &filter,
		Exact:       true,
		Skip:        []string{"slow", "flaky"},
		RunIgnored:  true,
		TestOnly:    true,
		TestThreads: 3,
	}, args.RunConfig())
}

func TestParseArgs_IgnoredSetsRunIgnored(t *testing.T) {
	t.Parallel()

	args, err := ParseArgs([]string{"--ignored", "--bench"})
	require.NoError(t, err)

	cfg := args.RunConfig()
	assert.True(t, cfg.RunIgnored)
	assert.True(t, cfg.BenchOnly)
	assert.False(t, cfg.TestOnly)
}

func TestParseArgs_Quiet(t *testing.T) {
	t.Parallel()

	args, err := ParseArgs([]string{"-q"})
	require.NoError(t, err)
	assert.Equal(t, FormatTerse, args.format())
}

func TestParseArgs_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		argv []string
		msg  string
	}{
		{"test and bench", []string{"--test", "--bench"}, "--test and --bench"},
		{"quiet and format", []string{"--quiet", "--format", "pretty"}, "--quiet and --format"},
		{"zero threads", []string{"--test-threads", "0"}, "positive number"},
		{"negative threads", []string{"--test-threads=-2"}, "positive number"},
		{"two filters", []string{"a", "b"}, `unexpected argument "b"`},
		{"bad color", []string{"--color", "sometimes"}, "auto, always, never"},
		{"bad format", []string{"--format", "xml"}, "pretty, terse, json"},
		{"unknown flag", []string{"--frobnicate"}, "frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseArgs(tt.argv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, ExitUsage, exitCodeOf(err))
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	t.Parallel()

	_, err := ParseArgs([]string{"--help"})
	assert.ErrorIs(t, err, ErrHelp)
}

func TestParseArgs_TestThreadsEnv(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", 0},
		{"1", 1},
		{" 8 ", 8},
		{"256", 256},
		{"257", 0},
		{"0", 0},
		{"-3", 0},
		{"many", 0},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvTestThreads, tt.env)
			args, err := ParseArgs(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.TestThreads)
		})
	}
}

func TestParseArgs_FlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvTestThreads, "8")

	args, err := ParseArgs([]string{"--test-threads", "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, args.TestThreads)
}

func TestArguments_AddFlagsOnForeignFlagSet(t *testing.T) {
	t.Parallel()

	// Embedding applications register the harness flags next to their own.
	fs := pflag.NewFlagSet("tool", pflag.ContinueOnError)
	var args Arguments
	args.AddFlags(fs)
	manifest := fs.String("manifest", "mimic.yaml", "")

	require.NoError(t, fs.Parse([]string{"--manifest", "ci.yaml", "--list", "unit"}))
	require.NoError(t, args.Finalize(fs, fs.Args()))

	assert.Equal(t, "ci.yaml", *manifest)
	assert.True(t, args.List)
	require.NotNil(t, args.Filter)
	assert.Equal(t, "unit", *args.Filter)
}

func TestUsage(t *testing.T) {
	t.Parallel()

	usage := Usage("harness")
	assert.Contains(t, usage, "USAGE: harness [OPTIONS] [FILTER]")
	for _, flag := range []string{"--include-ignored", "--test-threads", "--skip FILTER", "--logfile PATH", "-q, --quiet"} {
		assert.Contains(t, usage, flag)
	}
	assert.Contains(t, usage, EnvTestThreads)
}
