package search

import (
	"context"
	"runtime/debug"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/cassels/internal/cyclotomic"
	"github.com/agbru/cassels/internal/discard"
	apperrors "github.com/agbru/cassels/internal/errors"
)

// cancelCheckInterval is the number of tuples a unit classifies between two
// context checks. Must be a power of two.
const cancelCheckInterval = 1 << 12

// wave is the read-only state shared by the units of one wave.
type wave struct {
	level  int
	maxLen int
	table  *cyclotomic.Table
	consts discard.Constants

	index int // 1-based
	waves int
	j2    int

	// pool holds, in ascending order, the exponents admissible after
	// position 2: every v with j2 == 1 or gcd(v, NN) >= j2.
	pool []int

	survivorsBefore int
}

// unitReport is what a unit hands to the wave's collector.
type unitReport struct {
	j3        int
	survivors []Candidate
	stats     Stats
}

// admissible reports whether v may follow j2 in a tuple.
func (w *wave) admissible(v int) bool {
	return w.j2 == 1 || cyclotomic.GCD(v, w.consts.NN) >= w.j2
}

// poolFrom returns the suffix of the wave pool starting at the first value
// not below j3.
func (w *wave) poolFrom(j3 int) []int {
	i, _ := slices.BinarySearch(w.pool, j3)
	return w.pool[i:]
}

// runWave runs one unit per admissible j3 and collects their reports.
func (e *Engine) runWave(ctx context.Context, w *wave, progressChan chan<- ProgressUpdate) ([]Candidate, Stats, error) {
	nn := w.consts.NN
	for v := range nn {
		if w.admissible(v) {
			w.pool = append(w.pool, v)
		}
	}
	// j3 ranges over the same set as the later positions.
	units := w.pool

	ctx, span := otel.Tracer(tracerName).Start(ctx, "search.wave",
		trace.WithAttributes(
			attribute.Int("j2", w.j2),
			attribute.Int("units", len(units)),
		),
	)
	defer span.End()

	reports := make(chan unitReport, e.workers)
	var (
		survivors []Candidate
		stats     = Stats{Waves: 1}
	)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		done := 0
		for rep := range reports {
			survivors = append(survivors, rep.survivors...)
			stats.Add(rep.stats)
			done++
			sendProgress(progressChan, ProgressUpdate{
				Level:     w.level,
				Modulus:   nn,
				J2:        w.j2,
				Wave:      w.index,
				Waves:     w.waves,
				UnitsDone: done,
				Units:     len(units),
				Survivors: w.survivorsBefore + len(survivors),
			})
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, j3 := range units {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.UnitPanicError{J2: w.j2, J3: j3, Value: r, Stack: debug.Stack()}
				}
			}()
			rep, err := e.runUnit(gctx, w, j3)
			if err != nil {
				return err
			}
			reports <- rep
			return nil
		})
	}
	err := g.Wait()
	close(reports)
	<-collected

	if err != nil {
		span.RecordError(err)
		return nil, Stats{}, err
	}
	span.SetAttributes(attribute.Int("survivors", len(survivors)))
	return survivors, stats, nil
}

// runUnit classifies every tuple (0, j2, j3, l[3], ..., l[k-1]) for
// 3 <= k <= maxLen with l[3..] a non-decreasing selection from the pool
// suffix starting at j3.
func (e *Engine) runUnit(ctx context.Context, w *wave, j3 int) (unitReport, error) {
	if err := ctx.Err(); err != nil {
		return unitReport{}, err
	}
	rep := unitReport{j3: j3, stats: Stats{Units: 1}}
	pool := w.poolFrom(j3)
	tuple := make([]int, w.maxLen)
	tuple[1], tuple[2] = w.j2, j3
	x := cyclotomic.Integer{Modulus: w.consts.NN, Table: w.table}

	for length := MinMaxLen; length <= w.maxLen; length++ {
		x.Exponents = tuple[:length]
		for tail := range Multisets(pool, length-MinMaxLen) {
			copy(x.Exponents[MinMaxLen:], tail)
			rule := e.evaluate(x, w.consts)
			rep.stats.record(rule)
			if rule == discard.Keep {
				rep.survivors = append(rep.survivors, Candidate{
					Modulus:   w.consts.NN,
					Exponents: slices.Clone(x.Exponents),
				})
			}
			if rep.stats.Examined&(cancelCheckInterval-1) == 0 {
				if err := ctx.Err(); err != nil {
					return unitReport{}, err
				}
			}
		}
	}
	return rep, nil
}

func sendProgress(ch chan<- ProgressUpdate, u ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	default:
	}
}
