package observ

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what report runs produced. Each Metrics owns its registry,
// so tests and parallel commands never share counters.
type Metrics struct {
	reg      *prometheus.Registry
	reports  *prometheus.CounterVec
	shown    prometheus.Counter
	hidden   prometheus.Counter
	skipped  prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics registers the report collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prettydebug_reports_total",
			Help: "Reports built, by outcome.",
		}, []string{"status"}),
		shown: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prettydebug_frames_shown_total",
			Help: "Frames that survived filtering.",
		}),
		hidden: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prettydebug_frames_hidden_total",
			Help: "Frames dropped by exclusions or predicates.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prettydebug_filter_skipped_total",
			Help: "Predicate stages skipped because the predicate failed.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prettydebug_report_duration_seconds",
			Help:    "Time to read and assemble one report.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.reg.MustRegister(m.reports, m.shown, m.hidden, m.skipped, m.duration)
	return m
}

// RecordReport counts one finished report.
func (m *Metrics) RecordReport(shown, hidden int, filterSkipped bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues("ok").Inc()
	m.shown.Add(float64(shown))
	m.hidden.Add(float64(hidden))
	if filterSkipped {
		m.skipped.Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}

// RecordFailure counts an input that produced no report.
func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.reports.WithLabelValues("error").Inc()
}

// WriteFile writes the collected metrics in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.reg)
}
