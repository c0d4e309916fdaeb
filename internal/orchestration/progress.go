package orchestration

import (
	"time"

	"github.com/agbru/cassels/internal/format"
)

// ProgressAggregator folds the progress of every run of a plan into one
// figure with an ETA. The CLI reporter uses it between ticks.
type ProgressAggregator struct {
	state   *format.ProgressWithETA
	numRuns int
}

// NewProgressAggregator creates an aggregator for numRuns runs. Returns nil
// if numRuns <= 0.
func NewProgressAggregator(numRuns int) *ProgressAggregator {
	if numRuns <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:   format.NewProgressWithETA(numRuns),
		numRuns: numRuns,
	}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	RunIndex int
	// Value is the completed share of the run that sent the update.
	Value float64
	// AverageProgress is the mean over all runs of the plan.
	AverageProgress float64
	ETA             time.Duration
}

// Update processes one update and returns the aggregated state.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	value := update.Fraction()
	avg, eta := a.state.UpdateWithETA(update.RunIndex, value)
	return AggregatedProgress{
		RunIndex:        update.RunIndex,
		Value:           value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumRuns returns the number of runs being tracked.
func (a *ProgressAggregator) NumRuns() int {
	return a.numRuns
}

// IsMultiRun reports whether more than one run is tracked.
func (a *ProgressAggregator) IsMultiRun() bool {
	return a.numRuns > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
