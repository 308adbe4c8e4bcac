package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/config"
	"github.com/agbru/wideint/internal/ui"
)

// PrintExecutionConfig displays the parameters of a verification or
// benchmark run before it starts.
func PrintExecutionConfig(cfg config.AppConfig, ops []calc.Op, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	switch {
	case cfg.Verify:
		fmt.Fprintf(out, "Verifying %s%d operations%s against %s%s%s, %s%d%s cases each, seed %s%d%s.\n",
			ui.ColorMagenta(), len(ops), ui.ColorReset(),
			ui.ColorGreen(), cfg.Oracle, ui.ColorReset(),
			ui.ColorCyan(), cfg.Iterations, ui.ColorReset(),
			ui.ColorCyan(), cfg.Seed, ui.ColorReset())
	case cfg.Bench:
		fmt.Fprintf(out, "Benchmarking %s%d operations%s, %s%d%s rounds each.\n",
			ui.ColorMagenta(), len(ops), ui.ColorReset(),
			ui.ColorCyan(), cfg.BenchRounds, ui.ColorReset())
	}
	fmt.Fprintf(out, "Operations: %s\n", strings.Join(opNamesOf(ops), ", "))
	fmt.Fprintf(out, "Timeout %s%s%s, %s%d%s workers.\n",
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset(), ui.ColorCyan(), cfg.Workers, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintOps lists the operations of reg with their arity and usage.
func PrintOps(reg *calc.Registry, out io.Writer) {
	for _, op := range reg.Ops() {
		aliases := ""
		if len(op.Aliases) > 0 {
			aliases = " (" + strings.Join(op.Aliases, " ") + ")"
		}
		signed := ""
		if op.SignedOnly {
			signed = ui.Colorize(ui.ColorDim(), " [i256 only]")
		}
		fmt.Fprintf(out, "  %s%s%s%s%s - %s\n",
			ui.ColorYellow(), padTo(op.Name, 7), ui.ColorReset(), aliases, signed, op.Usage)
	}
}

func opNamesOf(ops []calc.Op) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}
