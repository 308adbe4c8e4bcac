package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/format"
	"github.com/agbru/wideint/internal/orchestration"
	"github.com/agbru/wideint/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during verification, benchmark and batch runs.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing work.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTasks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output in the command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentResult displays a single evaluation.
func (CLIResultPresenter) PresentResult(result calc.Result, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// PresentBatch displays the results of a batch run.
func (CLIResultPresenter) PresentBatch(results []calc.Result, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayBatch(results, opts, out)
}

// PresentVerification displays a verification report.
func (CLIResultPresenter) PresentVerification(report orchestration.VerifyReport, out io.Writer) {
	DisplayVerification(report, out)
}

// PresentBenchmark displays benchmark measurements.
func (CLIResultPresenter) PresentBenchmark(results []orchestration.BenchResult, out io.Writer) {
	DisplayBenchmark(results, out)
}

// FormatDuration formats a duration for display using the CLI's standard
// duration formatting.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError reports a run-level error and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	var (
		domainErr  apperrors.DomainError
		timeoutErr apperrors.TimeoutError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The run did not finish within the limit after %s.%s\n",
			ui.ColorRed(), format.FormatExecutionDuration(duration), ui.ColorReset())
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled after %s.%s\n",
			ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())
	case errors.As(err, &domainErr):
		fmt.Fprintf(out, "%sStatus: Domain error in %s: %v.%s\n", ui.ColorRed(), domainErr.Op, domainErr.Err, ui.ColorReset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure. %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
	return apperrors.ExitCodeFor(err)
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// padTo pads s with spaces to width columns.
func padTo(s string, width int) string {
	return padRight(s, width-len(s))
}
