// Package config defines the application's configuration, parsed from
// command-line flags with environment variable and .env overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// EnvPrefix is the prefix of every environment variable the application reads.
const EnvPrefix = "WIDEINT_"

// Defaults for the flag set.
const (
	DefaultTimeout     = 5 * time.Minute
	DefaultAddr        = ":8080"
	DefaultIterations  = 10000
	DefaultBenchRounds = 20000
	DefaultOracle      = "big"
	DefaultEnvFile     = ".env"
)

// AppConfig aggregates every parameter the application accepts.
type AppConfig struct {
	// Signed selects the two's complement type for evaluation.
	Signed bool
	// Hex prints results in hexadecimal next to the decimal form.
	Hex bool
	// Quiet prints bare results only, for scripting.
	Quiet bool
	// Verbose enables per-operation timing and extra detail.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
	// Timeout bounds the whole run.
	Timeout time.Duration
	// LogLevel is the minimum structured log level (debug, info, warn, error).
	LogLevel string

	// REPL starts the interactive prompt.
	REPL bool
	// TUI starts the terminal calculator.
	TUI bool
	// Serve starts the HTTP evaluation API on Addr.
	Serve bool
	Addr  string

	// Verify runs the differential conformance check against Oracle.
	Verify     bool
	Oracle     string
	Iterations int
	// Workers bounds concurrent evaluations; 0 selects a value from the CPU count.
	Workers int
	// Seed makes verification reproducible; 0 derives one from the clock.
	Seed int64

	// Bench measures every operation for BenchRounds rounds.
	Bench       bool
	BenchRounds int
	// Ops restricts -verify and -bench to a comma-separated list of
	// operation names; "all" selects every operation.
	Ops string

	// BatchFile evaluates one request per line ("-" for stdin).
	BatchFile string
	// OutputFile receives the results in addition to stdout.
	OutputFile string
	// EnvFile is the dotenv file loaded before environment overrides.
	EnvFile string
	// Completion prints a shell completion script (bash, zsh, fish,
	// powershell) and exits.
	Completion string

	// Args are the positional arguments: an operation name followed by its
	// operands.
	Args []string
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableOracles []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be strictly positive, got %s", c.Timeout)
	}
	if c.Iterations <= 0 {
		return apperrors.NewConfigError("iterations must be strictly positive, got %d", c.Iterations)
	}
	if c.BenchRounds <= 0 {
		return apperrors.NewConfigError("bench rounds must be strictly positive, got %d", c.BenchRounds)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers cannot be negative, got %d", c.Workers)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-quiet and -v are mutually exclusive")
	}
	if c.Oracle != "" && len(availableOracles) > 0 && !slices.Contains(availableOracles, c.Oracle) {
		return apperrors.NewConfigError("unknown oracle %q (available: %s)", c.Oracle, strings.Join(availableOracles, ", "))
	}
	if c.Serve && c.Addr == "" {
		return apperrors.NewConfigError("-serve requires a listen address")
	}
	modes := 0
	for _, on := range []bool{c.REPL, c.TUI, c.Serve, c.Verify, c.Bench, c.BatchFile != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("-repl, -tui, -serve, -verify, -bench and -batch are mutually exclusive")
	}
	return nil
}

// ParseConfig parses args into an AppConfig. Values are resolved with the
// priority: command-line flags > environment > .env file > defaults.
// Flag parsing errors are written to errorWriter; -h returns flag.ErrHelp.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableOracles []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] <op> <operand>...\n\n", programName)
		fmt.Fprintf(errorWriter, "Evaluates one 256-bit integer operation, or runs one of the modes below.\n")
		fmt.Fprintf(errorWriter, "Every flag can also be set through %s<NAME> (e.g. %sSIGNED=true).\n\nFlags:\n", EnvPrefix, EnvPrefix)
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.BoolVar(&config.Signed, "signed", false, "Evaluate with the signed (two's complement) type.")
	fs.BoolVar(&config.Signed, "s", false, "Shorthand for -signed.")
	fs.BoolVar(&config.Hex, "hex", false, "Also print results in hexadecimal.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print bare results only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print timings and details.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable ANSI colors.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum run time.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Structured log level (debug, info, warn, error).")
	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive prompt.")
	fs.BoolVar(&config.REPL, "i", false, "Shorthand for -repl.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the terminal calculator.")
	fs.BoolVar(&config.Serve, "serve", false, "Serve the HTTP evaluation API.")
	fs.StringVar(&config.Addr, "addr", DefaultAddr, "Listen address for -serve.")
	fs.BoolVar(&config.Verify, "verify", false, "Run the differential conformance check.")
	fs.StringVar(&config.Oracle, "oracle", DefaultOracle, "Reference implementation for -verify.")
	fs.IntVar(&config.Iterations, "iterations", DefaultIterations, "Random cases per operation for -verify.")
	fs.IntVar(&config.Workers, "workers", 0, "Concurrent evaluations (0 = number of CPUs).")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed for -verify (0 = time based).")
	fs.BoolVar(&config.Bench, "bench", false, "Benchmark every operation.")
	fs.IntVar(&config.BenchRounds, "bench-rounds", DefaultBenchRounds, "Rounds per operation for -bench.")
	fs.StringVar(&config.Ops, "ops", "all", "Comma-separated operations for -verify and -bench.")
	fs.StringVar(&config.BatchFile, "batch", "", "Evaluate one request per line from a file (- for stdin).")
	fs.StringVar(&config.OutputFile, "output", "", "Also write results to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for -output.")
	fs.StringVar(&config.EnvFile, "env-file", DefaultEnvFile, "Dotenv file with WIDEINT_ settings.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script (bash, zsh, fish, powershell).")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	config.Args = fs.Args()

	if err := loadDotEnv(config.EnvFile, isFlagSet(fs, "env-file")); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs)
	config = ApplyAdaptiveDefaults(config)

	if err := config.Validate(availableOracles); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
