package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(OutcomeOK)
	pr.IncRunOutcome(OutcomeIntegrityFailed)
	pr.ObserveRunDuration(150 * time.Millisecond)
	pr.AddDocuments(3)
	pr.AddIntegrityFailures(1)
	pr.AddAnchors(2)
	pr.AddDocuments(-1)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["articlegen_runs_total"])
	assert.Equal(t, 3.0, values["articlegen_documents_generated_total"])
	assert.Equal(t, 1.0, values["articlegen_integrity_failures_total"])
	assert.Equal(t, 2.0, values["articlegen_anchors_generated_total"])
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncRunOutcome(OutcomeRejected)
		pr.ObserveRunDuration(time.Second)
		pr.AddDocuments(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).AddAnchors(5)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "articlegen_anchors_generated_total 5"))
}
