//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks github.com/agbru/cassels/internal/orchestration ProgressReporter,ResultPresenter

package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/cassels/internal/search"
)

// Searcher runs the search for one level. *search.Engine implements it.
type Searcher interface {
	Run(ctx context.Context, level, maxLen int, progressChan chan<- search.ProgressUpdate) (*search.Result, error)
}

// ProgressUpdate is a search progress update tagged with the plan run it
// belongs to.
type ProgressUpdate struct {
	// RunIndex is the 0-based position of the run in the plan.
	RunIndex int
	search.ProgressUpdate
}

// ProgressReporter displays plan progress. Orchestration never depends on a
// concrete presentation.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed, then calls
	// wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from the runs.
	//   - numRuns: The number of runs in the plan.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numRuns int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numRuns int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numRuns int, out io.Writer) {
	f(wg, progressChan, numRuns, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders run summaries and errors.
type ResultPresenter interface {
	// PresentSummary displays the outcome of one run.
	PresentSummary(summary Summary, verbose bool, out io.Writer)

	// PresentPlanSummary displays the table of all completed runs.
	PresentPlanSummary(summaries []Summary, total time.Duration, out io.Writer)

	// HandleError reports err and returns the matching exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
