// Package integration runs fixture manifests end to end through the
// manifest loader, the command runner and the mimic engine.
package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/mimic/internal/manifest"
	"github.com/AndreyAkinshin/mimic/internal/runner"
	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
// The result is cached since runtime.Caller is relatively expensive.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

func fixtureManifest(name string) string {
	return filepath.Join(fixturesDir(), filepath.FromSlash(name), manifest.DefaultFile)
}

// runFixture loads the named fixture and runs it with argv. The report is
// written to a log file and returned with the conclusion.
func runFixture(t *testing.T, name string, argv ...string) (mimic.Conclusion, string) {
	t.Helper()

	m, err := manifest.Load(fixtureManifest(name))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}

	logfile := filepath.Join(t.TempDir(), "report.log")
	args, err := mimic.ParseArgs(append([]string{"--logfile", logfile, "--color", "never"}, argv...))
	if err != nil {
		t.Fatalf("ParseArgs(%v) error = %v", argv, err)
	}

	r := runner.New(args.NoCapture)
	c, err := mimic.RunTests(args, m.EngineCases(), func(c mimic.Case[manifest.Case]) mimic.Outcome {
		return r.Execute(c.Data())
	})
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}

	report, err := os.ReadFile(logfile)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	return c, string(report)
}

func assertReport(t *testing.T, want, got string) {
	t.Helper()
	want, got = strings.TrimSpace(want), strings.TrimSpace(got)
	if want != got {
		t.Errorf("report mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}
