// Package app wires configuration, parsing and output into the gctrace
// command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/gctrace/internal/cli"
	"github.com/agbru/gctrace/internal/config"
	apperrors "github.com/agbru/gctrace/internal/errors"
	"github.com/agbru/gctrace/internal/logging"
	"github.com/agbru/gctrace/internal/ui"
)

// Application represents the gctrace application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Logger defaults to a console logger on ErrWriter.
	Logger logging.Logger
	// Stdin is read for the "-" input. It defaults to os.Stdin.
	Stdin io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithStdin replaces standard input as the source for "-".
func WithStdin(r io.Reader) AppOption {
	return func(a *Application) { a.Stdin = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name. Flag syntax errors are reported as
// ConfigError; --help yields an error for which IsHelpError is true.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, Stdin: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "gctrace"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		if IsHelpError(err) || apperrors.ExitCodeFor(err) == apperrors.ExitErrorConfig {
			return nil, err
		}
		return nil, apperrors.ConfigError{Message: err.Error()}
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor, a.Config.Theme)
	if a.Logger == nil {
		a.Logger = a.newLogger()
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return a.runParse(ctx, out)
}

// newLogger returns a console logger for terminals and plain log lines
// otherwise.
func (a *Application) newLogger() logging.Logger {
	if cli.IsTerminal(a.ErrWriter) {
		return logging.NewConsoleLogger(a.ErrWriter, "gctrace", a.logLevel(), !ui.ColorsEnabled())
	}
	return logging.NewStdLoggerAdapter(log.New(a.ErrWriter, "gctrace: ", log.LstdFlags), a.logLevel())
}

func (a *Application) logLevel() zerolog.Level {
	switch {
	case a.Config.Verbose:
		return zerolog.DebugLevel
	case a.Config.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		err = apperrors.WrapError(err, "generating %s completion", a.Config.Completion)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
