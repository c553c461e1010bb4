package auditor

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TarunShaji/Website-Auditor/vo"
)

const (
	prometheusLabelStatus = "status"
	prometheusLabelKind   = "kind"
)

// Metrics bundles the instrumentation of one auditor process. All methods
// are nil-safe so the engine runs unchanged without metrics.
type Metrics struct {
	fetchDurations        prometheus.Summary
	statusCounterVec      *prometheus.CounterVec
	totalCounter          prometheus.Counter
	progressGaugeOpen     prometheus.Gauge
	progressGaugeComplete prometheus.Gauge
	issueCounterVec       *prometheus.CounterVec
}

func SetupMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchDurations: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "auditor_fetch_durations_seconds",
			Help:       "fetch duration including redirect following and body streaming",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		statusCounterVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auditor_fetch_status_total",
			Help: "fetched URLs by status code",
		}, []string{prometheusLabelStatus}),
		totalCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auditor_fetch_counter_total",
			Help: "number of fetches since start of the auditor",
		}),
		progressGaugeOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "auditor_progress_gauge_open",
			Help: "URLs queued for crawling",
		}),
		progressGaugeComplete: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "auditor_progress_gauge_complete",
			Help: "URLs crawled",
		}),
		issueCounterVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auditor_issues_total",
			Help: "issues found by kind",
		}, []string{prometheusLabelKind}),
	}
	reg.MustRegister(
		m.fetchDurations,
		m.statusCounterVec,
		m.totalCounter,
		m.progressGaugeOpen,
		m.progressGaugeComplete,
		m.issueCounterVec,
	)
	return m
}

func (m *Metrics) observeFetch(rec *vo.PageRecord) {
	if m == nil {
		return
	}
	m.totalCounter.Inc()
	m.fetchDurations.Observe(rec.Duration.Seconds())
	m.statusCounterVec.WithLabelValues(strconv.Itoa(rec.HTTPStatus)).Inc()
}

func (m *Metrics) setProgress(open, complete int) {
	if m == nil {
		return
	}
	m.progressGaugeOpen.Set(float64(open))
	m.progressGaugeComplete.Set(float64(complete))
}

func (m *Metrics) countIssues(issues []vo.Issue) {
	if m == nil {
		return
	}
	for _, issue := range issues {
		m.issueCounterVec.WithLabelValues(string(issue.Kind)).Inc()
	}
}
