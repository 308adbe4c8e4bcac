package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/wideint/internal/calc"
)

// ProgressUpdate reports the completion fraction of one task.
type ProgressUpdate struct {
	// TaskIndex identifies the task (verification shard, batch) in [0, n).
	TaskIndex int
	// Value is the fraction completed, from 0.0 to 1.0.
	Value float64
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Hex     bool
	Verbose bool
	Quiet   bool
}

// ProgressReporter defines the interface for displaying progress.
// This interface decouples the orchestration layer from the presentation layer,
// following Clean Architecture principles where business logic should not
// depend on UI concerns.
//
// Implementations handle the visual representation of progress (spinners,
// progress bars, etc.) while the orchestration layer focuses on coordinating
// the evaluations.
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and will run until the
	// progressChan is closed.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from workers.
	//   - numTasks: The number of concurrent tasks being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
// This allows passing a function directly where a ProgressReporter is expected.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer) {
	f(wg, progressChan, numTasks, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting results.
// This interface decouples the orchestration layer from presentation concerns,
// allowing different output formats (CLI, JSON, etc.) without modifying
// the orchestration logic.
type ResultPresenter interface {
	// PresentResult displays a single evaluation.
	PresentResult(result calc.Result, opts PresentationOptions, out io.Writer)

	// PresentBatch displays the results of a batch run and its summary.
	PresentBatch(results []calc.Result, opts PresentationOptions, out io.Writer)

	// PresentVerification displays a verification report.
	PresentVerification(report VerifyReport, out io.Writer)

	// PresentBenchmark displays benchmark measurements.
	PresentBenchmark(results []BenchResult, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles evaluation errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
