package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/cassels/internal/errors"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("cassels", nil, io.Discard)
	require.NoError(t, err)
	require.False(t, cfg.SingleRun())
	require.Equal(t, DefaultTablesPath, cfg.TablesPath)
	require.Equal(t, DefaultOutputPath, cfg.OutputPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Zero(t, cfg.Workers)
}

func TestParseConfig_SingleRun(t *testing.T) {
	cfg, err := ParseConfig("cassels", []string{"-level", "15", "-max-len", "4", "-workers", "3", "-o", "out.txt"}, io.Discard)
	require.NoError(t, err)
	require.True(t, cfg.SingleRun())
	require.Equal(t, 15, cfg.Level)
	require.Equal(t, 4, cfg.MaxLen)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, "out.txt", cfg.OutputPath)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"level without max-len", []string{"-level", "15"}},
		{"max-len without level", []string{"-max-len", "4"}},
		{"max-len too small", []string{"-level", "15", "-max-len", "2"}},
		{"level with plan", []string{"-level", "15", "-max-len", "4", "-plan", "p.yaml"}},
		{"negative workers", []string{"-workers", "-1"}},
		{"same artifact twice", []string{"-tables", "x.txt", "-output", "x.txt"}},
		{"quiet and verbose", []string{"-quiet", "-verbose"}},
		{"unknown log level", []string{"-log-level", "trace"}},
		{"unknown completion shell", []string{"-completion", "tcsh"}},
		{"unknown flag", []string{"-algo", "fast"}},
		{"positional argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("cassels", tt.args, io.Discard)
			require.Error(t, err)
			var cfgErr apperrors.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %T: %v", err, err)
			require.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCode(err))
		})
	}
}

func TestParseConfig_Completion(t *testing.T) {
	for _, shell := range CompletionShells {
		cfg, err := ParseConfig("cassels", []string{"-completion", shell}, io.Discard)
		require.NoError(t, err)
		require.Equal(t, shell, cfg.Completion)
	}
}

func TestParseConfig_Help(t *testing.T) {
	var usage strings.Builder
	_, err := ParseConfig("cassels", []string{"-h"}, &usage)
	require.ErrorIs(t, err, flag.ErrHelp)
	require.Contains(t, usage.String(), "-max-len")
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CASSELS_LEVEL", "7")
	t.Setenv("CASSELS_MAX_LEN", "4")
	t.Setenv("CASSELS_WORKERS", "2")
	t.Setenv("CASSELS_VERBOSE", "yes")
	t.Setenv("CASSELS_LOG_LEVEL", "debug")

	cfg, err := ParseConfig("cassels", nil, io.Discard)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Level)
	require.Equal(t, 4, cfg.MaxLen)
	require.Equal(t, 2, cfg.Workers)
	require.True(t, cfg.Verbose)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParseConfig_FlagsBeatEnv(t *testing.T) {
	t.Setenv("CASSELS_OUTPUT", "env.txt")
	t.Setenv("CASSELS_WORKERS", "not-a-number")
	t.Setenv("CASSELS_QUIET", "maybe")

	cfg, err := ParseConfig("cassels", []string{"-output", "flag.txt"}, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "flag.txt", cfg.OutputPath)
	require.Zero(t, cfg.Workers, "unparsable env values are ignored")
	require.False(t, cfg.Quiet, "unrecognized booleans keep the default")
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"true", "1", "YES"} {
		require.True(t, parseBoolEnv(v, false), v)
	}
	for _, v := range []string{"false", "0", "No"} {
		require.False(t, parseBoolEnv(v, true), v)
	}
	require.True(t, parseBoolEnv("perhaps", true))
}

func TestApplyAdaptiveWorkers(t *testing.T) {
	t.Parallel()
	require.GreaterOrEqual(t, ApplyAdaptiveWorkers(AppConfig{}).Workers, 1)
	require.Equal(t, 5, ApplyAdaptiveWorkers(AppConfig{Workers: 5}).Workers)
}

func TestDefaultPlan(t *testing.T) {
	t.Parallel()
	p := DefaultPlan()
	require.NoError(t, p.Validate())

	type pair struct{ level, maxLen int }
	var got []pair
	for _, r := range p.Runs {
		got = append(got, pair{r.Level, r.MaxLen})
		require.NotEmpty(t, r.Note)
	}
	require.Equal(t, []pair{
		{420, 7}, {31, 6}, {1365, 5}, {4620, 5}, {95, 4}, {85, 4}, {60060, 4}, {2520, 4},
	}, got)
}

func TestParsePlan(t *testing.T) {
	t.Parallel()
	p, err := ParsePlan(strings.NewReader(`
runs:
  - level: 15
    max_len: 4
    note: smoke
  - level: 7
    max_len: 5
`))
	require.NoError(t, err)
	require.Equal(t, Plan{Runs: []PlanRun{
		{Level: 15, MaxLen: 4, Note: "smoke"},
		{Level: 7, MaxLen: 5},
	}}, p)
}

func TestParsePlan_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"empty document", "", "empty"},
		{"no runs", "runs: []\n", "no runs"},
		{"unknown key", "runs:\n  - level: 15\n    max_len: 4\n    algo: fast\n", "algo"},
		{"bad level", "runs:\n  - level: 0\n    max_len: 4\n", "level"},
		{"bad max_len", "runs:\n  - level: 15\n    max_len: 2\n", "max_len"},
		{"not a list", "runs: 15\n", "invalid plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePlan(strings.NewReader(tt.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
			var cfgErr apperrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs:\n  - level: 31\n    max_len: 6\n"), 0o600))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	require.Equal(t, SingleRunPlan(31, 6), p)

	_, err = LoadPlan(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCode(err))
}
