package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/mimic/internal/manifest"
	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

func TestExecute_Plain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		run     string
		status  mimic.Status
		message string
	}{
		{"success", "true", mimic.StatusPassed, ""},
		{"failure", "false", mimic.StatusFailed, "exit status 1"},
		{"exit code and output", `sh -c "echo first; echo second; exit 3"`, mimic.StatusFailed, "exit status 3\nfirst\nsecond"},
		{"missing binary", "definitely-not-a-real-binary-xyz", mimic.StatusFailed, "executable file not found"},
		{"unbalanced quotes", `sh -c "echo`, mimic.StatusFailed, "invalid command"},
		{"empty", "   ", mimic.StatusFailed, "empty command"},
	}

	r := New(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := r.Execute(manifest.Case{Name: tt.name, Run: tt.run})
			assert.Equal(t, tt.status, o.Status)
			assert.Contains(t, o.Message, tt.message)
		})
	}
}

func TestExecute_DirAndEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0644))

	o := New(false).Execute(manifest.Case{
		Name: "env",
		Run:  `sh -c 'test -f marker && test "$MIMIC_RUNNER_TEST" = yes'`,
		Dir:  dir,
		Env:  map[string]string{"MIMIC_RUNNER_TEST": "yes"},
	})
	assert.Equal(t, mimic.StatusPassed, o.Status, o.Message)
}

func TestExecute_Timeout(t *testing.T) {
	t.Parallel()

	start := time.Now()
	o := New(false).Execute(manifest.Case{
		Name:    "slow",
		Run:     "sleep 10",
		Timeout: manifest.Duration(50 * time.Millisecond),
	})

	assert.Equal(t, mimic.StatusFailed, o.Status)
	assert.Contains(t, o.Message, "timed out after 50ms")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecute_NoCaptureStreams(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	r := New(true)
	r.Stream = &stream

	o := r.Execute(manifest.Case{Name: "echo", Run: "echo hello"})

	assert.Equal(t, mimic.StatusPassed, o.Status)
	assert.Equal(t, "hello\n", stream.String())
}

func TestExecute_Harness(t *testing.T) {
	t.Parallel()

	report := func(lines ...string) string {
		return `sh -c "printf '%s\n' '` + strings.Join(lines, "' '") + `'"`
	}

	tests := []struct {
		name    string
		run     string
		harness string
		status  mimic.Status
		message string
	}{
		{
			name:    "passing report",
			run:     report("test a ... ok", "", "test result: ok. 1 passed; 0 failed; 0 ignored; 0 measured; 0 filtered out"),
			harness: "libtest",
			status:  mimic.StatusPassed,
		},
		{
			name: "failing report",
			run: report(
				"test a ... ok", "test b ... FAILED", "", "failures:", "", "---- b ----", "bad input", "",
				"test result: FAILED. 1 passed; 1 failed; 0 ignored; 0 measured; 0 filtered out",
			),
			harness: "cargo",
			status:  mimic.StatusFailed,
			message: "1 of 2 tests failed:\n    b: bad input",
		},
		{
			name:    "no report",
			run:     "echo nothing here",
			harness: "libtest",
			status:  mimic.StatusFailed,
			message: "no libtest report found",
		},
		{
			name:    "go report",
			run:     report("=== RUN   TestA", "--- PASS: TestA (0.00s)", "PASS"),
			harness: "go",
			status:  mimic.StatusPassed,
		},
		{
			name:    "clean report but exit failure",
			run:     `sh -c "echo 'test result: ok. 1 passed; 0 failed; 0 ignored; 0 measured; 0 filtered out'; exit 1"`,
			harness: "libtest",
			status:  mimic.StatusFailed,
			message: "command failed",
		},
	}

	r := New(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := r.Execute(manifest.Case{Name: tt.name, Run: tt.run, Harness: tt.harness})
			assert.Equal(t, tt.status, o.Status, o.Message)
			assert.Contains(t, o.Message, tt.message)
		})
	}
}

func TestExecute_Bench(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	r := New(true)
	r.Stream = &stream

	o := r.Execute(manifest.Case{Name: "bench", Run: "echo tick", Bench: true, Iterations: 3})

	require.Equal(t, mimic.StatusMeasured, o.Status, o.Message)
	assert.Positive(t, o.Measurement.Avg)
	assert.Equal(t, strings.Repeat("tick\n", 3), stream.String())
}

func TestExecute_BenchFailure(t *testing.T) {
	t.Parallel()

	o := New(false).Execute(manifest.Case{Name: "bench", Run: "false", Bench: true, Iterations: 5})
	assert.Equal(t, mimic.StatusFailed, o.Status)
}

func TestTail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", tail("", 3))
	assert.Equal(t, "a\nb", tail("a\nb\n\n", 3))
	assert.Equal(t, "c\nd", tail("a\nb\nc\nd\n", 2))
}

func TestBuildEnv(t *testing.T) {
	t.Parallel()

	env := buildEnv(map[string]string{"ZZ_MIMIC": "2", "AA_MIMIC": "1"})
	n := len(env)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, []string{"AA_MIMIC=1", "ZZ_MIMIC=2"}, env[n-2:])
}
