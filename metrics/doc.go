// Package metrics records generation metrics.
//
// Components hold a Recorder and default to NoopRecorder, so metrics can be
// switched on by injecting a PrometheusRecorder without touching call sites:
//
//	reg := prometheus.NewRegistry()
//	gen := articlegen.New(cfg, articlegen.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
