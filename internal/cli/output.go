// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayBatch], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatRequest].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultsToFile], [WriteVerificationToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/format"
	"github.com/agbru/wideint/internal/orchestration"
	"github.com/agbru/wideint/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the results (empty for no file output).
	OutputFile string
	orchestration.PresentationOptions
}

// FormatRequest renders a request the way it is typed: "i256 mul 3 -4".
func FormatRequest(req calc.Request) string {
	return req.String()
}

// FormatQuietResult formats a result for quiet mode output: the bare value
// (hexadecimal when hex is set) or "error: <cause>".
func FormatQuietResult(res calc.Result, hex bool) string {
	switch {
	case res.Err != nil:
		return "error: " + res.Err.Error()
	case hex && res.Hex != "":
		return res.Hex
	}
	return res.Value
}

// DisplayResult prints one evaluation.
//
// The default form is "<request> = <value>". Verbose output adds digit
// grouping and the evaluation time; Hex adds the 64-bit word grouped
// hexadecimal form.
func DisplayResult(res calc.Result, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		fmt.Fprintln(out, FormatQuietResult(res, opts.Hex))
		return
	}
	if res.Err != nil {
		DisplayError(res, out)
		return
	}

	fmt.Fprintf(out, "%s = %s\n", ui.Colorize(ui.ColorBlue(), FormatRequest(res.Request)), ui.Colorize(ui.ColorCyan(), res.Value))
	if opts.Hex && res.Hex != "" {
		fmt.Fprintf(out, "  hex:     %s\n", ui.Colorize(ui.ColorCyan(), format.GroupHex(res.Hex)))
	}
	if opts.Verbose {
		if digits := len(strings.TrimPrefix(res.Value, "-")); digits > 3 {
			fmt.Fprintf(out, "  grouped: %s (%d digits)\n", format.FormatNumberString(res.Value), digits)
		}
		fmt.Fprintf(out, "  time:    %s\n", ui.Colorize(ui.ColorYellow(), formatDuration(res.Duration)))
	}
}

// DisplayError prints a failed evaluation.
func DisplayError(res calc.Result, out io.Writer) {
	req := ""
	if res.Request.Op != "" {
		req = FormatRequest(res.Request) + ": "
	}
	fmt.Fprintf(out, "%s%s%s\n", req, ui.Colorize(ui.ColorRed(), "error: "), res.Err)
}

// DisplayBatch prints every result of a batch in input order followed by a
// summary line.
func DisplayBatch(results []calc.Result, opts orchestration.PresentationOptions, out io.Writer) {
	for _, res := range results {
		DisplayResult(res, opts, out)
	}
	if opts.Quiet {
		return
	}
	s := orchestration.SummarizeBatch(results)
	status := ui.Colorize(ui.ColorGreen(), "all succeeded")
	if s.Failed > 0 {
		status = ui.Colorize(ui.ColorRed(), fmt.Sprintf("%d failed", s.Failed))
	}
	fmt.Fprintf(out, "\n%d requests, %d succeeded, %s (engine time %s)\n",
		s.Total, s.Succeeded, status, formatDuration(s.Elapsed))
}

// DisplayVerification prints a per-operation table of a verification run,
// the first mismatches and a verdict.
func DisplayVerification(report orchestration.VerifyReport, out io.Writer) {
	fmt.Fprintf(out, "\n--- Verification against %s (seed %d) ---\n", report.Oracle, report.Seed)

	nameWidth := len("Operation")
	for _, st := range report.PerOp {
		nameWidth = max(nameWidth, len(opLabel(st.Op, st.Signed)))
	}
	fmt.Fprintf(out, "%s%s%s   %sChecked%s   %sErrors%s   %sStatus%s\n",
		ui.ColorUnderline(), padTo("Operation", nameWidth), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, st := range report.PerOp {
		status := ui.Colorize(ui.ColorGreen(), "ok")
		if st.Mismatches > 0 {
			status = ui.Colorize(ui.ColorRed(), fmt.Sprintf("%d mismatches", st.Mismatches))
		}
		label := opLabel(st.Op, st.Signed)
		fmt.Fprintf(out, "%s%s   %7d   %6d   %s\n",
			ui.Colorize(ui.ColorBlue(), label), padRight("", nameWidth-len(label)),
			st.Checked, st.Errors, status)
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "%s\n", ui.Colorize(ui.ColorDim(), s+": not supported by "+report.Oracle))
	}

	for i, m := range report.Mismatches {
		if i == MaxDisplayedMismatches {
			fmt.Fprintf(out, "  ... %d more\n", report.Mismatched-MaxDisplayedMismatches)
			break
		}
		fmt.Fprintf(out, "  %s\n", ui.Colorize(ui.ColorRed(), m.Error()))
	}

	switch {
	case report.Err != nil:
		fmt.Fprintf(out, "\n%s after %d checks in %s: %v\n",
			ui.Colorize(ui.ColorYellow(), "Interrupted"), report.Checked, formatDuration(report.Duration), report.Err)
	case report.Mismatched > 0:
		fmt.Fprintf(out, "\n%s: %d of %d checks disagree (%s)\n",
			ui.Colorize(ui.ColorRed(), "FAIL"), report.Mismatched, report.Checked, formatDuration(report.Duration))
	default:
		fmt.Fprintf(out, "\n%s: %d checks agree (%s)\n",
			ui.Colorize(ui.ColorGreen(), "PASS"), report.Checked, formatDuration(report.Duration))
	}
}

// DisplayBenchmark prints the benchmark measurements as a table.
func DisplayBenchmark(results []orchestration.BenchResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Benchmark ---\n")
	nameWidth := len("Operation")
	for _, r := range results {
		nameWidth = max(nameWidth, len(opLabel(r.Op, r.Signed)))
	}
	fmt.Fprintf(out, "%s%s%s   %s%12s%s   %s%10s%s   %s%10s%s\n",
		ui.ColorUnderline(), padTo("Operation", nameWidth), ui.ColorReset(),
		ui.ColorUnderline(), "ns/op", ui.ColorReset(),
		ui.ColorUnderline(), "allocs/op", ui.ColorReset(),
		ui.ColorUnderline(), "B/op", ui.ColorReset())
	for _, r := range results {
		label := opLabel(r.Op, r.Signed)
		if r.Err != nil {
			fmt.Fprintf(out, "%s%s   %s\n", label, padRight("", nameWidth-len(label)), ui.Colorize(ui.ColorRed(), r.Err.Error()))
			continue
		}
		fmt.Fprintf(out, "%s%s   %s   %10.2f   %10.1f\n",
			ui.Colorize(ui.ColorBlue(), label), padRight("", nameWidth-len(label)),
			ui.Colorize(ui.ColorYellow(), fmt.Sprintf("%12.1f", r.NsPerOp)),
			r.AllocsPerOp, r.BytesPerOp)
	}
}

// DisplayMemoryStats shows the heap figures gathered after a run.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
}

// WriteResultsToFile writes results to config.OutputFile, one line per
// request in the batch input syntax, so that the file can be fed back with
// -batch after removing the values.
func WriteResultsToFile(results []calc.Result, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# wideint results\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Requests: %d\n\n", len(results))
	for _, res := range results {
		value := FormatQuietResult(res, false)
		if config.Hex && res.Err == nil && res.Hex != "" {
			value += " " + res.Hex
		}
		fmt.Fprintf(file, "%s = %s\n", FormatRequest(res.Request), value)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// WriteVerificationToFile writes the per-operation counts and every
// mismatch of report to path. An empty path writes nothing.
func WriteVerificationToFile(report orchestration.VerifyReport, path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# wideint verification against %s\n", report.Oracle)
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Seed: %d\n# Checked: %d\n# Mismatched: %d\n\n", report.Seed, report.Checked, report.Mismatched)
	for _, st := range report.PerOp {
		fmt.Fprintf(file, "%s checked=%d errors=%d mismatches=%d\n", opLabel(st.Op, st.Signed), st.Checked, st.Errors, st.Mismatches)
	}
	if len(report.Mismatches) > 0 {
		fmt.Fprintln(file)
	}
	for _, m := range report.Mismatches {
		fmt.Fprintln(file, m.Error())
	}
	if report.Err != nil {
		fmt.Fprintf(file, "\ninterrupted: %v\n", report.Err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func opLabel(op string, signed bool) string {
	return calc.Request{Op: op, Signed: signed}.String()
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}
