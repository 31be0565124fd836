package metrics

import "time"

// OutcomeLabel enumerates run outcomes for counters.
type OutcomeLabel string

const (
	OutcomeOK              OutcomeLabel = "ok"
	OutcomeIntegrityFailed OutcomeLabel = "integrity_failed"
	OutcomeRejected        OutcomeLabel = "rejected"
)

// Recorder defines observability hooks for anchor and document generation.
type Recorder interface {
	IncRunOutcome(outcome OutcomeLabel)
	ObserveRunDuration(d time.Duration)
	AddDocuments(n int)
	AddIntegrityFailures(n int)
	AddAnchors(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRunOutcome(OutcomeLabel)       {}
func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) AddDocuments(int)                 {}
func (NoopRecorder) AddIntegrityFailures(int)         {}
func (NoopRecorder) AddAnchors(int)                   {}
