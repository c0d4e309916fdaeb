package orchestration

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/cassels/internal/config"
	"github.com/agbru/cassels/internal/cyclotomic"
	apperrors "github.com/agbru/cassels/internal/errors"
	"github.com/agbru/cassels/internal/format"
	"github.com/agbru/cassels/internal/search"
)

// Sink names used in SinkError.
const (
	TablesSink     = "tables"
	CandidatesSink = "candidates"
)

// ProgressBufferSize is the capacity of the progress channels. The engine
// drops updates when they are full, so a slow display never stalls a search.
const ProgressBufferSize = 256

// Summary describes one completed run.
type Summary struct {
	Level   int
	Modulus int
	MaxLen  int
	Note    string
	Stats   search.Stats
	// Candidates is the number of candidate lines written.
	Candidates int
	// Digest is the xxhash64 of the candidate lines written by this run.
	Digest   uint64
	Duration time.Duration
}

// Invoke runs the search for one (level, maxLen) pair, streams the table to
// tableSink and the sorted candidates to candidateSink. A failed write aborts
// with a SinkError; a failed search is returned as the engine reported it.
func Invoke(ctx context.Context, s Searcher, level, maxLen int, tableSink, candidateSink io.Writer) (Summary, error) {
	return invoke(ctx, s, config.PlanRun{Level: level, MaxLen: maxLen}, tableSink, candidateSink, nil)
}

func invoke(ctx context.Context, s Searcher, run config.PlanRun, tableSink, candidateSink io.Writer, progressChan chan<- search.ProgressUpdate) (Summary, error) {
	start := time.Now()
	res, err := s.Run(ctx, run.Level, run.MaxLen, progressChan)
	if err != nil {
		return Summary{}, err
	}
	if err := WriteTables(tableSink, res.Table); err != nil {
		return Summary{}, err
	}
	SortCandidates(res.Candidates)
	digest, err := WriteCandidates(candidateSink, res.Candidates)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Level:      run.Level,
		Modulus:    res.Modulus,
		MaxLen:     run.MaxLen,
		Note:       run.Note,
		Stats:      res.Stats,
		Candidates: len(res.Candidates),
		Digest:     digest,
		Duration:   time.Since(start),
	}, nil
}

// WriteTables writes one "<NN> <j> <cos> <sin>" line per table entry.
func WriteTables(w io.Writer, t *cyclotomic.Table) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for j, e := range t.Entries() {
		line = format.AppendTableLine(line[:0], t.Modulus(), j, e.Cos, e.Sin)
		if _, err := bw.Write(line); err != nil {
			return apperrors.SinkError{Sink: TablesSink, Cause: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return apperrors.SinkError{Sink: TablesSink, Cause: err}
	}
	return nil
}

// WriteCandidates writes one "<NN>; [e0, e1, ...]" line per candidate, in
// the given order, and returns the xxhash64 of the bytes written.
func WriteCandidates(w io.Writer, cs []search.Candidate) (uint64, error) {
	h := xxhash.New()
	bw := bufio.NewWriter(io.MultiWriter(w, h))
	var line []byte
	for _, c := range cs {
		line = format.AppendCandidateLine(line[:0], c.Modulus, c.Exponents)
		if _, err := bw.Write(line); err != nil {
			return 0, apperrors.SinkError{Sink: CandidatesSink, Cause: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, apperrors.SinkError{Sink: CandidatesSink, Cause: err}
	}
	return h.Sum64(), nil
}

// ExecutePlan runs every run of plan in order, appending to the same sinks,
// and stops at the first failure. It returns the summaries of the runs that
// completed. Progress of all runs is fed to reporter, which is given out to
// draw on.
func ExecutePlan(ctx context.Context, s Searcher, plan config.Plan, tableSink, candidateSink io.Writer, reporter ProgressReporter, out io.Writer) ([]Summary, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer("github.com/agbru/cassels/internal/orchestration").Start(ctx, "orchestration.ExecutePlan",
		trace.WithAttributes(attribute.Int("runs", len(plan.Runs))),
	)
	defer span.End()

	progressChan := make(chan ProgressUpdate, ProgressBufferSize)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(plan.Runs), out)

	summaries := make([]Summary, 0, len(plan.Runs))
	var runErr error
	for i, run := range plan.Runs {
		src, stop := relayProgress(i, progressChan)
		summary, err := invoke(ctx, s, run, tableSink, candidateSink, src)
		stop()
		if err != nil {
			runErr = apperrors.WrapError(err, "run %d of %d (level %d, max_len %d)", i+1, len(plan.Runs), run.Level, run.MaxLen)
			break
		}
		summaries = append(summaries, summary)
	}

	close(progressChan)
	displayWg.Wait()

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "plan aborted")
	}
	span.SetAttributes(attribute.Int("completed_runs", len(summaries)))
	return summaries, runErr
}

// relayProgress returns a channel for the engine and forwards what it
// receives to dst tagged with runIndex. stop closes the channel and waits for
// the relay to drain it.
func relayProgress(runIndex int, dst chan<- ProgressUpdate) (src chan<- search.ProgressUpdate, stop func()) {
	ch := make(chan search.ProgressUpdate, ProgressBufferSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range ch {
			dst <- ProgressUpdate{RunIndex: runIndex, ProgressUpdate: u}
		}
	}()
	return ch, func() {
		close(ch)
		<-done
	}
}
