package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/cassels/internal/format"
	"github.com/agbru/cassels/internal/orchestration"
	"github.com/agbru/cassels/internal/ui"
)

const (
	// ProgressRefreshRate is how often the progress line is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer, options ...spinner.Option) Spinner {
	options = append([]spinner.Option{spinner.WithWriter(out)}, options...)
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress renders a spinner followed by the plan's overall
// progress bar and ETA until progressChan is closed, then calls wg.Done.
// Updates arriving between two redraws are folded into the next one.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numRuns int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(out)
	s.UpdateSuffix(progressSuffix(agg, orchestration.AggregatedProgress{}, orchestration.ProgressUpdate{}))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var (
		last  orchestration.ProgressUpdate
		state orchestration.AggregatedProgress
		dirty bool
	)
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				state.AverageProgress = agg.CalculateAverage()
				s.UpdateSuffix(progressSuffix(agg, state, last))
				return
			}
			last = update
			state = agg.Update(update)
			dirty = true
		case <-ticker.C:
			if dirty {
				s.UpdateSuffix(progressSuffix(agg, state, last))
				dirty = false
			}
		}
	}
}

// progressSuffix formats the text shown after the spinner. Multi-run plans
// prefix it with the current run; every line names the wave in progress.
func progressSuffix(agg *orchestration.ProgressAggregator, state orchestration.AggregatedProgress, last orchestration.ProgressUpdate) string {
	bar := format.FormatProgressBarWithETA(state.AverageProgress, state.ETA, ProgressBarWidth)
	if last.Waves == 0 {
		return " " + bar
	}
	wave := fmt.Sprintf("%sN=%d%s wave %d/%d (j2=%d)", ui.ColorBlue(), last.Modulus, ui.ColorReset(), last.Wave, last.Waves, last.J2)
	if agg.IsMultiRun() {
		return fmt.Sprintf(" run %d/%d %s %s", last.RunIndex+1, agg.NumRuns(), wave, bar)
	}
	return fmt.Sprintf(" %s %s", wave, bar)
}
