package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/cassels/internal/discard"
	apperrors "github.com/agbru/cassels/internal/errors"
	"github.com/agbru/cassels/internal/format"
	"github.com/agbru/cassels/internal/orchestration"
	"github.com/agbru/cassels/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numRuns int, out io.Writer) {
	DisplayProgress(wg, progressChan, numRuns, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter with colored
// terminal output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentSummary prints one line per run. In verbose mode the discards are
// broken down by rule.
func (CLIResultPresenter) PresentSummary(s orchestration.Summary, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "%sN=%d%s (level %d, max_len %d): %s%s%s candidates from %s tuples in %s",
		ui.ColorBlue(), s.Modulus, ui.ColorReset(), s.Level, s.MaxLen,
		ui.ColorGreen(), format.FormatCount(uint64(s.Candidates)), ui.ColorReset(),
		format.FormatCount(s.Stats.Examined), format.FormatExecutionDuration(s.Duration))
	if s.Note != "" {
		fmt.Fprintf(out, " %s[%s]%s", ui.ColorCyan(), s.Note, ui.ColorReset())
	}
	fmt.Fprintln(out)
	if !verbose {
		return
	}
	fmt.Fprintf(out, "  waves %d, units %d, digest %s%016x%s\n",
		s.Stats.Waves, s.Stats.Units, ui.ColorMagenta(), s.Digest, ui.ColorReset())
	width := 0
	for _, r := range discard.Rules()[1:] {
		width = max(width, len(r.String()))
	}
	for _, r := range discard.Rules()[1:] {
		fmt.Fprintf(out, "  %s%s  %s\n", r, padRight("", width-len(r.String())), format.FormatCount(s.Stats.ByRule[r]))
	}
}

// PresentPlanSummary prints a table of the completed runs followed by a
// panel with the totals.
func (CLIResultPresenter) PresentPlanSummary(summaries []orchestration.Summary, total time.Duration, out io.Writer) {
	headers := []string{"N", "max_len", "Candidates", "Examined", "Duration", "Digest"}
	rows := make([][]string, 0, len(summaries))
	var candidates, examined uint64
	for _, s := range summaries {
		candidates += uint64(s.Candidates)
		examined += s.Stats.Examined
		rows = append(rows, []string{
			strconv.Itoa(s.Modulus),
			strconv.Itoa(s.MaxLen),
			format.FormatCount(uint64(s.Candidates)),
			format.FormatCount(s.Stats.Examined),
			format.FormatExecutionDuration(s.Duration),
			fmt.Sprintf("%016x", s.Digest),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	fmt.Fprintf(out, "\n--- Plan Summary ---\n")
	var b strings.Builder
	for i, h := range headers {
		// Manual padding keeps the escape codes out of the width.
		b.WriteString(ui.ColorUnderline() + h + ui.ColorReset() + padRight("", widths[i]-len(h)) + "   ")
	}
	fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			b.WriteString(padRight(cell, widths[i]-len(cell)) + "   ")
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderPanel("Totals", []ui.PanelRow{
		{Label: "Runs", Value: strconv.Itoa(len(summaries))},
		{Label: "Candidates", Value: format.FormatCount(candidates)},
		{Label: "Tuples examined", Value: format.FormatCount(examined)},
		{Label: "Wall time", Value: format.FormatExecutionDuration(total)},
	}))
	fmt.Fprintf(out, "%sAll cases checked!%s\n", ui.ColorGreen(), ui.ColorReset())
}

// HandleError prints err with a message matching its class and returns the
// exit code for it.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	elapsed := format.FormatExecutionDuration(duration)
	var (
		configErr     apperrors.ConfigError
		validationErr apperrors.ValidationError
		sinkErr       apperrors.SinkError
		panicErr      apperrors.UnitPanicError
	)
	switch {
	case apperrors.IsContextError(err):
		fmt.Fprintf(out, "%sSearch canceled after %s%s\n", ui.ColorYellow(), elapsed, ui.ColorReset())
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		fmt.Fprintf(out, "%sConfiguration error:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
	case errors.As(err, &sinkErr):
		fmt.Fprintf(out, "%sCould not write the %s file:%s %v\n", ui.ColorRed(), sinkErr.Sink, ui.ColorReset(), sinkErr.Cause)
	case errors.As(err, &panicErr):
		fmt.Fprintf(out, "%sA search unit panicked after %s%s (j2=%d, j3=%d): %v\n",
			ui.ColorRed(), elapsed, ui.ColorReset(), panicErr.J2, panicErr.J3, panicErr.Value)
	default:
		fmt.Fprintf(out, "%sSearch failed after %s:%s %v\n", ui.ColorRed(), elapsed, ui.ColorReset(), err)
	}
	return apperrors.ExitCode(err)
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}
