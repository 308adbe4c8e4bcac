// Package app wires the configuration to the evaluation modes of the
// wideint command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/cli"
	"github.com/agbru/wideint/internal/config"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/logging"
	"github.com/agbru/wideint/internal/oracle"
	"github.com/agbru/wideint/internal/tui"
	"github.com/agbru/wideint/internal/ui"
)

// Application represents the wideint application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *calc.Registry
	In        io.Reader
	ErrWriter io.Writer
	Logger    logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the operation registry of the application.
func WithRegistry(r *calc.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithInput sets the reader used by -repl and "-batch -".
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = calc.DefaultRegistry()
	}

	programName := "wideint"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, oracle.Available())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)
	if code := a.initLogger(); code != apperrors.ExitSuccess {
		return code
	}

	switch {
	case a.Config.Serve:
		return a.runServe(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.REPL:
		return a.runREPL(out)
	case a.Config.Verify:
		return a.runVerify(ctx, out)
	case a.Config.Bench:
		return a.runBench(ctx, out)
	case a.Config.BatchFile != "":
		return a.runBatch(ctx, out)
	}
	return a.runEval(out)
}

// initLogger builds the structured logger on ErrWriter at the configured
// level, unless one was injected.
func (a *Application) initLogger() int {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	zerolog.SetGlobalLevel(level)
	if a.Logger != nil {
		return apperrors.ExitSuccess
	}
	logger, err := logging.NewConsoleLogger(a.ErrWriter, "wideint", a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	a.Logger = logger
	return apperrors.ExitSuccess
}

// lifecycle bounds ctx by the configured timeout and by SIGINT/SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive terminal calculator.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()
	return tui.Run(ctx, a.Registry, a.Config, Version)
}

// runREPL starts the line-oriented prompt on In.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Registry, cli.REPLConfig{
		Signed:    a.Config.Signed,
		HexOutput: a.Config.Hex,
		Verbose:   a.Config.Verbose,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
