package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

func family(t *testing.T, r *Recorder, name string) *dto.MetricFamily {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() == name {
			return fam
		}
	}
	t.Fatalf("metric family %q not found", name)
	return nil
}

func counterByOutcome(t *testing.T, r *Recorder) map[string]float64 {
	t.Helper()
	got := map[string]float64{}
	for _, m := range family(t, r, "mimic_cases_total").GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "outcome" {
				got[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	return got
}

func TestRecorder_OutcomesPreinitialized(t *testing.T) {
	t.Parallel()

	got := counterByOutcome(t, NewRecorder())
	assert.Equal(t, map[string]float64{"passed": 0, "failed": 0, "ignored": 0, "measured": 0}, got)
}

func TestRecorder_Run(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.CaseStarted("a", "unit")
	r.CaseCompleted("a", "unit", mimic.Passed(), 10*time.Millisecond)
	r.CaseCompleted("b", "unit", mimic.Failed("x"), 20*time.Millisecond)
	r.CaseCompleted("c", "", mimic.Ignored(), 0)
	r.CaseCompleted("d", "perf", mimic.Measured(100, 1), time.Second)
	r.RunFinished(mimic.Conclusion{NumPassed: 1, NumFailed: 1, NumIgnored: 1, NumMeasured: 1, NumFilteredOut: 7})

	assert.Equal(t, map[string]float64{"passed": 1, "failed": 1, "ignored": 1, "measured": 1}, counterByOutcome(t, r))

	hist := family(t, r, "mimic_case_duration_seconds")
	var samples uint64
	for _, m := range hist.GetMetric() {
		samples += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples, "ignored cases are not timed")

	assert.Equal(t, 7.0, family(t, r, "mimic_cases_filtered_out").GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 1.0, family(t, r, "mimic_run_failed").GetMetric()[0].GetGauge().GetValue())
	assert.Positive(t, family(t, r, "mimic_last_run_timestamp_seconds").GetMetric()[0].GetGauge().GetValue())
}

func TestRecorder_RunPassed(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.RunFinished(mimic.Conclusion{NumPassed: 3})
	assert.Equal(t, 0.0, family(t, r, "mimic_run_failed").GetMetric()[0].GetGauge().GetValue())
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.CaseCompleted("a", "", mimic.Failed("boom"), time.Millisecond)
	r.RunFinished(mimic.Conclusion{NumFailed: 1})

	path := filepath.Join(t.TempDir(), "mimic.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `mimic_cases_total{outcome="failed"} 1`)
	assert.Contains(t, text, `mimic_cases_total{outcome="passed"} 0`)
	assert.Contains(t, text, "mimic_run_failed 1")
	assert.Contains(t, text, "# HELP mimic_case_duration_seconds")
}
