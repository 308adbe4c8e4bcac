package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/orchestration"
	"github.com/agbru/wideint/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Signed selects the two's complement type for untagged requests.
	Signed bool
	// HexOutput displays results in hexadecimal as well.
	HexOutput bool
	// Verbose displays digit grouping and timings.
	Verbose bool
}

// REPL is an interactive evaluation session: each line is a request in the
// batch syntax ("[u256|i256] <op> <operand>...") or a session command.
type REPL struct {
	config   REPLConfig
	registry *calc.Registry
	history  int
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a new REPL instance reading stdin and writing stdout.
func NewREPL(registry *calc.Registry, config REPLConfig) *REPL {
	return &REPL{
		config:   config,
		registry: registry,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+r.prompt()+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) prompt() string {
	if r.config.Signed {
		return "i256> "
	}
	return "u256> "
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s256-bit Integer Calculator - Interactive Mode%s        %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<op> <a> [b] [m]%s  - Evaluate, e.g. %smulmod 3 4 5%s or %si256 div -7 2%s\n",
		ui.ColorYellow(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssigned%s            - Use the signed type for untagged requests\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sunsigned%s          - Use the unsigned type for untagged requests\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shex%s               - Toggle hexadecimal display\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sverbose%s           - Toggle digit grouping and timings\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sops%s               - List operations\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s            - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s              - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s       - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand executes one input line. Returns false if the REPL should
// exit.
func (r *REPL) processCommand(input string) bool {
	switch strings.ToLower(input) {
	case "signed", "i256":
		r.config.Signed = true
		fmt.Fprintf(r.out, "Type changed to: %si256%s\n", ui.ColorGreen(), ui.ColorReset())
	case "unsigned", "u256":
		r.config.Signed = false
		fmt.Fprintf(r.out, "Type changed to: %su256%s\n", ui.ColorGreen(), ui.ColorReset())
	case "hex":
		r.config.HexOutput = !r.config.HexOutput
		fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ui.ColorGreen(), onOff(r.config.HexOutput), ui.ColorReset())
	case "verbose", "v":
		r.config.Verbose = !r.config.Verbose
		fmt.Fprintf(r.out, "Verbose display: %s%s%s\n", ui.ColorGreen(), onOff(r.config.Verbose), ui.ColorReset())
	case "ops", "list", "ls":
		fmt.Fprintf(r.out, "\n%sAvailable operations:%s\n", ui.ColorBold(), ui.ColorReset())
		PrintOps(r.registry, r.out)
		fmt.Fprintln(r.out)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		r.evaluate(input)
	}
	return true
}

// evaluate runs one request line and prints its result.
func (r *REPL) evaluate(line string) {
	req, err := calc.ParseRequest(line, r.config.Signed)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid request: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	res := calc.Eval(r.registry, req)
	if res.Err != nil {
		DisplayError(res, r.out)
		if _, lookupErr := r.registry.Lookup(req.Op); lookupErr != nil {
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
		return
	}
	r.history++
	DisplayResult(res, orchestration.PresentationOptions{Hex: r.config.HexOutput, Verbose: r.config.Verbose}, r.out)
}

func (r *REPL) cmdStatus() {
	kind := "u256"
	if r.config.Signed {
		kind = "i256"
	}
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Type:         %s%s%s\n", ui.ColorCyan(), kind, ui.ColorReset())
	fmt.Fprintf(r.out, "  Hexadecimal:  %s%s%s\n", ui.ColorCyan(), onOff(r.config.HexOutput), ui.ColorReset())
	fmt.Fprintf(r.out, "  Verbose:      %s%s%s\n", ui.ColorCyan(), onOff(r.config.Verbose), ui.ColorReset())
	fmt.Fprintf(r.out, "  Evaluations:  %s%d%s\n", ui.ColorCyan(), r.history, ui.ColorReset())
	fmt.Fprintln(r.out)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
