// Package app wires configuration, the search engine, orchestration and
// presentation into the cassels command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/cassels/internal/cli"
	"github.com/agbru/cassels/internal/config"
	apperrors "github.com/agbru/cassels/internal/errors"
	"github.com/agbru/cassels/internal/logging"
	"github.com/agbru/cassels/internal/orchestration"
	"github.com/agbru/cassels/internal/search"
	"github.com/agbru/cassels/internal/server"
	"github.com/agbru/cassels/internal/ui"
)

// Application is one execution of the cassels command.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
	Presenter orchestration.ResultPresenter
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the stderr logger built from -log-level.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithPresenter replaces the colored terminal presenter.
func WithPresenter(p orchestration.ResultPresenter) AppOption {
	return func(a *Application) { a.Presenter = p }
}

// New parses args (program name first) into an Application.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "cassels"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Config:    config.ApplyAdaptiveWorkers(cfg),
		ErrWriter: errWriter,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		app.Logger = newLogger(errWriter, cfg)
	}
	if app.Presenter == nil {
		app.Presenter = cli.CLIResultPresenter{}
	}
	return app, nil
}

// newLogger builds the console logger for cfg. The level was validated by
// ParseConfig.
func newLogger(w io.Writer, cfg config.AppConfig) logging.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: "15:04:05"}
	return logging.NewZerologAdapter(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

// Run executes the configured mode and returns the process exit code.
// SIGINT and SIGTERM cancel the search in progress.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	return a.runSearch(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runSearch(ctx context.Context, out io.Writer) int {
	start := time.Now()
	presenter := a.Presenter

	plan, err := orchestration.SelectPlan(a.Config)
	if err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}

	opts := []search.Option{search.WithWorkers(a.Config.Workers), search.WithLogger(a.Logger)}
	if a.Config.MetricsAddr != "" {
		m := server.NewMetrics()
		srv := server.New(a.Config.MetricsAddr, m, a.Logger)
		if err := srv.Start(); err != nil {
			return presenter.HandleError(apperrors.NewConfigError("-metrics-addr: %v", err), 0, a.ErrWriter)
		}
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				a.Logger.Error("metrics server shutdown failed", err)
			}
		}()
		opts = append(opts, search.WithRecorder(m.Search()))
	}
	engine := search.New(opts...)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, engine.Workers(), out)
		cli.PrintExecutionMode(plan, out)
	}

	sinks, err := cli.OpenSinks(a.Config.TablesPath, a.Config.OutputPath)
	if err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	summaries, err := orchestration.ExecutePlan(ctx, engine, plan, sinks.Tables, sinks.Candidates, reporter, progressOut)
	if closeErr := sinks.Close(); err == nil {
		err = closeErr
	}

	for _, s := range summaries {
		a.Logger.Info("run completed",
			logging.Int("level", s.Level),
			logging.Int("modulus", s.Modulus),
			logging.Int("max_len", s.MaxLen),
			logging.Int("candidates", s.Candidates),
			logging.Uint64("examined", s.Stats.Examined),
			logging.String("duration", s.Duration.String()),
		)
		if a.Config.Quiet {
			cli.DisplayQuietSummary(out, s)
		} else {
			presenter.PresentSummary(s, a.Config.Verbose, out)
		}
	}
	if err != nil {
		return presenter.HandleError(err, time.Since(start), a.ErrWriter)
	}
	if !a.Config.Quiet {
		presenter.PresentPlanSummary(summaries, time.Since(start), out)
	}
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err means -h or -help was given.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
