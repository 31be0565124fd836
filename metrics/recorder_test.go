package metrics

import (
	"testing"
	"time"
)

// Compile-time checks that both recorders satisfy Recorder.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = (*testRecorder)(nil)
)

type testRecorder struct {
	outcomes  map[OutcomeLabel]int
	durations int
	documents int
	failures  int
	anchors   int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{outcomes: map[OutcomeLabel]int{}}
}

func (t *testRecorder) IncRunOutcome(o OutcomeLabel)       { t.outcomes[o]++ }
func (t *testRecorder) ObserveRunDuration(_ time.Duration) { t.durations++ }
func (t *testRecorder) AddDocuments(n int)                 { t.documents += n }
func (t *testRecorder) AddIntegrityFailures(n int)         { t.failures += n }
func (t *testRecorder) AddAnchors(n int)                   { t.anchors += n }

func record(r Recorder) {
	r.AddAnchors(2)
	r.AddDocuments(2)
	r.AddIntegrityFailures(1)
	r.IncRunOutcome(OutcomeIntegrityFailed)
	r.ObserveRunDuration(time.Millisecond)
}

func TestRecorderInterface(t *testing.T) {
	tr := newTestRecorder()
	record(tr)
	if tr.anchors != 2 || tr.documents != 2 || tr.failures != 1 || tr.durations != 1 {
		t.Fatalf("unexpected recorder state: %+v", tr)
	}
	if tr.outcomes[OutcomeIntegrityFailed] != 1 {
		t.Fatalf("expected one integrity_failed outcome, got %v", tr.outcomes)
	}

	// Noop must accept the same calls.
	record(NoopRecorder{})
}
