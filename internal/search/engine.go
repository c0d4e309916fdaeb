package search

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/cassels/internal/cyclotomic"
	"github.com/agbru/cassels/internal/discard"
	apperrors "github.com/agbru/cassels/internal/errors"
	"github.com/agbru/cassels/internal/logging"
)

const tracerName = "github.com/agbru/cassels/internal/search"

// MinMaxLen is the smallest accepted maximum tuple length: every tuple
// carries the three fixed leading exponents.
const MinMaxLen = 3

// Normalize maps a level to the modulus it is searched under: odd levels
// are doubled, even levels are kept.
func Normalize(level int) int {
	if level%2 == 1 {
		return 2 * level
	}
	return level
}

// Engine runs searches. An Engine is safe for concurrent use; each Run
// builds its own table and counters.
type Engine struct {
	workers  int
	logger   logging.Logger
	recorder Recorder
	evaluate func(cyclotomic.Integer, discard.Constants) discard.Rule
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of units running at once within a wave.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		e.workers = n
	}
}

// WithLogger sets the logger used for wave-level diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRecorder registers a Recorder notified after every wave.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// New returns an Engine configured by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers:  runtime.NumCPU(),
		logger:   logging.Nop(),
		recorder: nopRecorder{},
		evaluate: discard.Evaluate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the per-wave concurrency bound.
func (e *Engine) Workers() int { return e.workers }

// Run searches one level for tuples of length 3 through maxLen. Progress
// updates are sent to progressChan without blocking; updates are dropped
// when the receiver is not ready. progressChan may be nil.
//
// Errors other than argument validation are returned wrapped in a
// SearchError. A panicking unit aborts the run with an UnitPanicError.
func (e *Engine) Run(ctx context.Context, level, maxLen int, progressChan chan<- ProgressUpdate) (*Result, error) {
	if level < 1 {
		return nil, apperrors.ValidationError{Field: "level", Message: "must be at least 1"}
	}
	if maxLen < MinMaxLen {
		return nil, apperrors.ValidationError{Field: "max_len", Message: "must be at least 3"}
	}
	nn := Normalize(level)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "search.Run",
		trace.WithAttributes(
			attribute.Int("level", level),
			attribute.Int("modulus", nn),
			attribute.Int("max_len", maxLen),
			attribute.Int("workers", e.workers),
		),
	)
	defer span.End()

	start := time.Now()
	table, err := cyclotomic.NewTable(nn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "table construction failed")
		return nil, apperrors.SearchError{Level: level, Cause: err}
	}

	res := &Result{Level: level, Modulus: nn, MaxLen: maxLen, Table: table}
	divisors := cyclotomic.Divisors(nn)
	base := wave{
		level:  level,
		maxLen: maxLen,
		table:  table,
		consts: discard.NewConstants(nn),
		waves:  len(divisors),
	}

	e.logger.Debug("search started",
		logging.Int("level", level),
		logging.Int("modulus", nn),
		logging.Int("max_len", maxLen),
		logging.Int("waves", len(divisors)),
	)

	for i, j2 := range divisors {
		w := base
		w.index = i + 1
		w.j2 = j2
		w.survivorsBefore = len(res.Candidates)

		waveStart := time.Now()
		survivors, stats, err := e.runWave(ctx, &w, progressChan)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "wave failed")
			e.logger.Error("search aborted", err, logging.Int("modulus", nn), logging.Int("j2", j2))
			return nil, apperrors.SearchError{Level: level, Cause: err}
		}
		res.Candidates = append(res.Candidates, survivors...)
		res.Stats.Add(stats)

		elapsed := time.Since(waveStart)
		e.recorder.ObserveWave(WaveReport{
			Modulus: nn,
			J2:      j2,
			Units:   stats.Units,
			Stats:   stats,
			Elapsed: elapsed,
		})
		e.logger.Debug("wave completed",
			logging.Int("modulus", nn),
			logging.Int("j2", j2),
			logging.Int("units", stats.Units),
			logging.Uint64("examined", stats.Examined),
			logging.Uint64("survivors", stats.Survivors()),
			logging.Float64("elapsed_ms", float64(elapsed.Microseconds())/1000),
		)
	}

	res.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int64("examined", int64(res.Stats.Examined)),
		attribute.Int("survivors", len(res.Candidates)),
	)
	return res, nil
}
