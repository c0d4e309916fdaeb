// Package config parses the command line and environment into an AppConfig
// and loads run plans.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	apperrors "github.com/agbru/cassels/internal/errors"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "CASSELS_"

// Default artifact paths.
const (
	DefaultTablesPath = "tables.txt"
	DefaultOutputPath = "output.txt"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// CompletionShells lists the shells accepted by -completion.
var CompletionShells = []string{"bash", "zsh", "fish"}

// AppConfig holds the settings of one program execution.
type AppConfig struct {
	// Level and MaxLen select a single run. Both zero means: run the plan.
	Level  int
	MaxLen int
	// PlanPath names a YAML plan; empty selects DefaultPlan.
	PlanPath   string
	TablesPath string
	OutputPath string
	// Workers bounds the units running at once within a wave; 0 means
	// EstimateWorkers.
	Workers     int
	Quiet       bool
	Verbose     bool
	NoColor     bool
	MetricsAddr string
	LogLevel    string
	ShowVersion bool
	// Completion names a shell whose completion script is printed instead
	// of searching.
	Completion string
}

// SingleRun reports whether the configuration selects one (level, max_len)
// pair instead of a plan.
func (c AppConfig) SingleRun() bool {
	return c.Level != 0 || c.MaxLen != 0
}

// Validate checks cross-field constraints.
func (c AppConfig) Validate() error {
	if c.SingleRun() {
		if c.Level < 1 {
			return apperrors.NewConfigError("-level must be at least 1 when -max-len is given, got %d", c.Level)
		}
		if c.MaxLen < MinMaxLen {
			return apperrors.NewConfigError("-max-len must be at least %d when -level is given, got %d", MinMaxLen, c.MaxLen)
		}
		if c.PlanPath != "" {
			return apperrors.NewConfigError("-plan cannot be combined with -level/-max-len")
		}
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("-workers must not be negative, got %d", c.Workers)
	}
	if c.TablesPath == "" || c.OutputPath == "" {
		return apperrors.NewConfigError("-tables and -output must name files")
	}
	if c.TablesPath == c.OutputPath {
		return apperrors.NewConfigError("-tables and -output must differ, both are %q", c.TablesPath)
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for -completion (want one of %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-quiet and -verbose are mutually exclusive")
	}
	level := strings.ToLower(c.LogLevel)
	for _, l := range validLogLevels {
		if level == l {
			return nil
		}
	}
	return apperrors.NewConfigError("unknown log level %q (want one of %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Flags take precedence over CASSELS_* environment variables, which take
// precedence over defaults. Usage errors are written to errorWriter.
// flag.ErrHelp is returned unwrapped when -h or -help is given.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	config := AppConfig{}

	fs.IntVar(&config.Level, "level", 0, "Level N to search (odd levels are doubled). Requires -max-len.")
	fs.IntVar(&config.MaxLen, "max-len", 0, "Maximum number of exponents per tuple (at least 3). Requires -level.")
	fs.StringVar(&config.PlanPath, "plan", "", "YAML plan of (level, max_len) runs. Default: the built-in plan.")
	fs.StringVar(&config.TablesPath, "tables", DefaultTablesPath, "File receiving the sine/cosine tables.")
	fs.StringVar(&config.OutputPath, "output", DefaultOutputPath, "File receiving the sorted candidates.")
	fs.StringVar(&config.OutputPath, "o", DefaultOutputPath, "Shorthand for -output.")
	fs.IntVar(&config.Workers, "workers", 0, "Units running at once within a wave (0 = one per CPU).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Suppress progress and summaries.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print per-rule statistics for every run.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090).")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")
	fs.BoolVar(&config.ShowVersion, "V", false, "Shorthand for -version.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh or fish and exit.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
