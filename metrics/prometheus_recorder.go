package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "articlegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runOutcomes       *prom.CounterVec
	runDuration       prom.Histogram
	documents         prom.Counter
	integrityFailures prom.Counter
	anchors           prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Generation runs by outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of generation runs",
			Buckets:   prom.DefBuckets,
		}),
		documents: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Documents rendered",
		}),
		integrityFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_failures_total",
			Help:      "Rows that failed the integrity check",
		}),
		anchors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "anchors_generated_total",
			Help:      "Anchors built from titles",
		}),
	}
	reg.MustRegister(pr.runOutcomes, pr.runDuration, pr.documents, pr.integrityFailures, pr.anchors)
	return pr
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddDocuments(n int) {
	if p == nil || p.documents == nil || n <= 0 {
		return
	}
	p.documents.Add(float64(n))
}

func (p *PrometheusRecorder) AddIntegrityFailures(n int) {
	if p == nil || p.integrityFailures == nil || n <= 0 {
		return
	}
	p.integrityFailures.Add(float64(n))
}

func (p *PrometheusRecorder) AddAnchors(n int) {
	if p == nil || p.anchors == nil || n <= 0 {
		return
	}
	p.anchors.Add(float64(n))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
