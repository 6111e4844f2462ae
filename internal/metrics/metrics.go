// Package metrics records run results as Prometheus metrics and writes them
// in the node exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

// Recorder is a mimic.Reporter that counts outcomes on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	casesTotal    *prometheus.CounterVec
	caseDuration  *prometheus.HistogramVec
	filteredOut   prometheus.Gauge
	runFailed     prometheus.Gauge
	lastRunFinish prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		casesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mimic_cases_total",
				Help: "Number of completed cases by outcome.",
			},
			[]string{"outcome"},
		),
		caseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mimic_case_duration_seconds",
				Help:    "Wall time of executed cases, in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		filteredOut: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mimic_cases_filtered_out",
			Help: "Number of cases removed by the name filter and --skip in the last run.",
		}),
		runFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mimic_run_failed",
			Help: "1 if any case failed in the last run, 0 otherwise.",
		}),
		lastRunFinish: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mimic_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.casesTotal, r.caseDuration, r.filteredOut, r.runFailed, r.lastRunFinish)

	// Pre-initialize outcome labels so they appear with value 0.
	for _, s := range []mimic.Status{mimic.StatusPassed, mimic.StatusFailed, mimic.StatusIgnored, mimic.StatusMeasured} {
		r.casesTotal.WithLabelValues(s.String())
	}
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// CaseStarted implements mimic.Reporter.
func (r *Recorder) CaseStarted(name, kind string) {}

// CaseCompleted implements mimic.Reporter. Ignored cases do not run and are
// left out of the duration histogram.
func (r *Recorder) CaseCompleted(name, kind string, o mimic.Outcome, elapsed time.Duration) {
	r.casesTotal.WithLabelValues(o.Status.String()).Inc()
	if o.Status != mimic.StatusIgnored {
		r.caseDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// RunFinished implements mimic.Reporter.
func (r *Recorder) RunFinished(c mimic.Conclusion) {
	r.filteredOut.Set(float64(c.NumFilteredOut))
	if c.HasFailed() {
		r.runFailed.Set(1)
	} else {
		r.runFailed.Set(0)
	}
	r.lastRunFinish.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path atomically, for the node
// exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var _ mimic.Reporter = (*Recorder)(nil)
