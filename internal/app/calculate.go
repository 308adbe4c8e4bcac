package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/cli"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/logging"
	"github.com/agbru/wideint/internal/metrics"
	"github.com/agbru/wideint/internal/oracle"
	"github.com/agbru/wideint/internal/orchestration"
	"github.com/agbru/wideint/internal/ui"
)

func (a *Application) presentation() orchestration.PresentationOptions {
	return orchestration.PresentationOptions{
		Hex:     a.Config.Hex,
		Verbose: a.Config.Verbose,
		Quiet:   a.Config.Quiet,
	}
}

// progress returns the reporter and writer for long runs; quiet mode
// drains progress silently.
func (a *Application) progress(out io.Writer) (orchestration.ProgressReporter, io.Writer) {
	if a.Config.Quiet {
		return orchestration.NullProgressReporter{}, io.Discard
	}
	return cli.CLIProgressReporter{}, out
}

// runEval evaluates the request given as positional arguments.
func (a *Application) runEval(out io.Writer) int {
	if len(a.Config.Args) == 0 {
		fmt.Fprintf(a.ErrWriter, "Configuration error: missing operation (try -h, or -repl for the interactive prompt)\n")
		return apperrors.ExitErrorConfig
	}
	req, err := calc.ParseRequest(strings.Join(a.Config.Args, " "), a.Config.Signed)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid request: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	res := calc.Eval(a.Registry, req)
	a.Logger.Debug("evaluated",
		logging.String("request", res.Request.String()),
		logging.Duration("elapsed", res.Duration))
	if res.Err != nil {
		if a.Config.Quiet {
			fmt.Fprintln(a.ErrWriter, cli.FormatQuietResult(res, false))
		} else {
			cli.DisplayError(res, a.ErrWriter)
		}
		return apperrors.ExitCodeFor(res.Err)
	}

	cli.CLIResultPresenter{}.PresentResult(res, a.presentation(), out)
	return a.saveResults([]calc.Result{res}, out)
}

// runBatch evaluates one request per line of BatchFile ("-" reads In).
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	in := a.In
	if a.Config.BatchFile != "-" {
		f, err := os.Open(a.Config.BatchFile)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Configuration error: open batch file: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer f.Close()
		in = f
	}
	reqs, err := orchestration.ReadRequests(in, a.Config.Signed)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid batch: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	reporter, progressOut := a.progress(a.ErrWriter)
	start := time.Now()
	results := orchestration.ExecuteBatch(ctx, a.Registry, reqs, a.Config.Workers, reporter, progressOut)
	summary := orchestration.SummarizeBatch(results)
	a.Logger.Info("batch finished",
		logging.Int("requests", summary.Total),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", time.Since(start)))

	code := orchestration.AnalyzeBatchResults(results, a.presentation(), cli.CLIResultPresenter{}, out)
	if saveCode := a.saveResults(results, out); saveCode != apperrors.ExitSuccess {
		return saveCode
	}
	if err := ctx.Err(); err != nil {
		return apperrors.ExitCodeFor(err)
	}
	return code
}

// runVerify checks the selected operations against the configured oracle.
func (a *Application) runVerify(ctx context.Context, out io.Writer) int {
	ops, err := orchestration.OpsToRun(a.Registry, a.Config.Ops)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	ref, err := oracle.New(a.Config.Oracle)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	cfg := a.Config
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, ops, out)
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()
	reporter, progressOut := a.progress(out)
	report := orchestration.RunVerification(ctx, a.Registry, orchestration.VerifyOptions{
		Ops:        ops,
		Iterations: cfg.Iterations,
		Workers:    cfg.Workers,
		Seed:       cfg.Seed,
	}, ref, reporter, progressOut)

	a.Logger.Info("verification finished",
		logging.String("oracle", report.Oracle),
		logging.Int("checked", report.Checked),
		logging.Int("mismatched", report.Mismatched),
		logging.Duration("elapsed", report.Duration))

	if cfg.Quiet {
		verdict := "PASS"
		if !report.OK() {
			verdict = "FAIL"
		}
		fmt.Fprintf(out, "%s %d/%d\n", verdict, report.Checked-report.Mismatched, report.Checked)
	} else {
		cli.CLIResultPresenter{}.PresentVerification(report, out)
	}
	if err := cli.WriteVerificationToFile(report, cfg.OutputFile); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return report.ExitCode()
}

// runBench measures the selected operations.
func (a *Application) runBench(ctx context.Context, out io.Writer) int {
	ops, err := orchestration.OpsToRun(a.Registry, a.Config.Ops)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, ops, out)
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	start := time.Now()
	reporter, progressOut := a.progress(out)
	results := orchestration.RunBenchmark(ctx, a.Registry, ops, a.Config.BenchRounds, reporter, progressOut)
	after := collector.Snapshot()

	cli.CLIResultPresenter{}.PresentBenchmark(results, out)
	if a.Config.Verbose {
		cli.DisplayMemoryStats(after.HeapAlloc, after.Since(before).Bytes, after.NumGC-before.NumGC, out)
	}
	if err := ctx.Err(); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, time.Since(start), a.ErrWriter)
	}
	return apperrors.ExitSuccess
}

// saveResults writes results to OutputFile when one is configured.
func (a *Application) saveResults(results []calc.Result, out io.Writer) int {
	if a.Config.OutputFile == "" {
		return apperrors.ExitSuccess
	}
	cfg := cli.OutputConfig{OutputFile: a.Config.OutputFile, PresentationOptions: a.presentation()}
	if err := cli.WriteResultsToFile(results, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}
