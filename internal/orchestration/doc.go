// Package orchestration runs engine evaluations concurrently: batch files,
// the differential verification against a reference oracle and the
// per-operation benchmark. It decouples that work from presentation via the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
