package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"

	"github.com/agbru/cassels/internal/cyclotomic"
	"github.com/agbru/cassels/internal/discard"
	apperrors "github.com/agbru/cassels/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sorted returns candidates ordered by modulus, then lexicographically by
// exponents.
func sorted(cs []Candidate) []Candidate {
	out := slices.Clone(cs)
	slices.SortFunc(out, func(a, b Candidate) int {
		if a.Modulus != b.Modulus {
			return a.Modulus - b.Modulus
		}
		return slices.Compare(a.Exponents, b.Exponents)
	})
	return out
}

func candidates(nn int, tuples ...[]int) []Candidate {
	out := make([]Candidate, len(tuples))
	for i, l := range tuples {
		out[i] = Candidate{Modulus: nn, Exponents: l}
	}
	return out
}

func mustRun(t *testing.T, e *Engine, level, maxLen int) *Result {
	t.Helper()
	res, err := e.Run(context.Background(), level, maxLen, nil)
	if err != nil {
		t.Fatalf("Run(%d, %d) returned error: %v", level, maxLen, err)
	}
	return res
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct{ level, want int }{
		{1, 2}, {2, 2}, {7, 14}, {15, 30}, {31, 62}, {420, 420}, {1365, 2730}, {60060, 60060},
	}
	for _, tt := range tests {
		if got := Normalize(tt.level); got != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestRun_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		level  int
		maxLen int
		field  string
	}{
		{"zero level", 0, 4, "level"},
		{"negative level", -3, 4, "level"},
		{"length below three", 15, 2, "max_len"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(WithWorkers(2)).Run(context.Background(), tt.level, tt.maxLen, nil)
			var verr apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestRun_KnownSurvivors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level, maxLen int
		want          []Candidate
	}{
		{15, 4, candidates(30,
			[]int{0, 1, 2, 13},
			[]int{0, 1, 2, 14},
			[]int{0, 1, 2, 18},
			[]int{0, 1, 2, 19},
			[]int{0, 1, 7, 14},
			[]int{0, 1, 7, 23},
			[]int{0, 1, 8, 12},
			[]int{0, 1, 8, 14},
			[]int{0, 1, 8, 19},
			[]int{0, 1, 12},
			[]int{0, 1, 12, 14},
		)},
		{7, 4, candidates(14,
			[]int{0, 1, 4, 6},
			[]int{0, 2, 4},
			[]int{0, 2, 6},
			[]int{0, 2, 8},
		)},
		{7, 3, candidates(14,
			[]int{0, 2, 4},
			[]int{0, 2, 6},
			[]int{0, 2, 8},
		)},
		// j3 may be smaller than j2.
		{4, 3, candidates(4, []int{0, 1, 0})},
		{4, 4, candidates(4, []int{0, 1, 0})},
		{6, 4, nil},
		{3, 3, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("level=%d/max_len=%d", tt.level, tt.maxLen), func(t *testing.T) {
			t.Parallel()
			res := mustRun(t, New(WithWorkers(4)), tt.level, tt.maxLen)
			if res.Modulus != Normalize(tt.level) {
				t.Errorf("Modulus = %d, want %d", res.Modulus, Normalize(tt.level))
			}
			if diff := cmp.Diff(tt.want, sorted(res.Candidates), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("survivors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_RuleCounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level, maxLen int
		byRule        [discard.NumRules]uint64
		waves, units  int
	}{
		{15, 4, [discard.NumRules]uint64{11, 380, 110, 167, 28, 311, 4, 6, 0}, 7, 90},
		{7, 4, [discard.NumRules]uint64{4, 52, 32, 0, 0, 72, 2, 0, 6}, 3, 24},
		{7, 5, [discard.NumRules]uint64{4, 234, 234, 0, 0, 362, 2, 0, 16}, 3, 24},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("level=%d/max_len=%d", tt.level, tt.maxLen), func(t *testing.T) {
			t.Parallel()
			res := mustRun(t, New(WithWorkers(3)), tt.level, tt.maxLen)
			if res.Stats.ByRule != tt.byRule {
				t.Errorf("ByRule = %v, want %v", res.Stats.ByRule, tt.byRule)
			}
			var total uint64
			for _, n := range tt.byRule {
				total += n
			}
			if res.Stats.Examined != total {
				t.Errorf("Examined = %d, want %d", res.Stats.Examined, total)
			}
			if res.Stats.Survivors() != uint64(len(res.Candidates)) {
				t.Errorf("Survivors() = %d, but %d candidates collected", res.Stats.Survivors(), len(res.Candidates))
			}
			if res.Stats.Waves != tt.waves || res.Stats.Units != tt.units {
				t.Errorf("waves/units = %d/%d, want %d/%d", res.Stats.Waves, res.Stats.Units, tt.waves, tt.units)
			}
		})
	}
}

func TestRun_LengthThreeExaminesOneTuplePerUnit(t *testing.T) {
	t.Parallel()
	res := mustRun(t, New(), 15, 3)
	if res.Stats.Examined != uint64(res.Stats.Units) {
		t.Errorf("Examined = %d, Units = %d", res.Stats.Examined, res.Stats.Units)
	}
}

func TestRun_IndependentOfWorkerCount(t *testing.T) {
	t.Parallel()
	want := mustRun(t, New(WithWorkers(1)), 15, 5)
	if len(want.Candidates) != 12 {
		t.Fatalf("single worker found %d survivors, want 12", len(want.Candidates))
	}
	for _, workers := range []int{2, 5, 16} {
		got := mustRun(t, New(WithWorkers(workers)), 15, 5)
		if diff := cmp.Diff(sorted(want.Candidates), sorted(got.Candidates)); diff != "" {
			t.Errorf("workers=%d: survivors differ (-1 worker +%d workers):\n%s", workers, workers, diff)
		}
		if got.Stats != want.Stats {
			t.Errorf("workers=%d: stats %+v, want %+v", workers, got.Stats, want.Stats)
		}
	}
}

func TestRun_TableIsShared(t *testing.T) {
	t.Parallel()
	res := mustRun(t, New(), 7, 3)
	if res.Table == nil || res.Table.Modulus() != 14 || res.Table.Len() != 14 {
		t.Fatalf("unexpected table %+v", res.Table)
	}
}

func TestRun_UnitPanicAbortsRun(t *testing.T) {
	t.Parallel()
	e := New(WithWorkers(4))
	e.evaluate = func(x cyclotomic.Integer, c discard.Constants) discard.Rule {
		if x.Exponents[1] == 1 && x.Exponents[2] == 5 {
			panic("unexpected exponent")
		}
		return discard.Evaluate(x, c)
	}

	res, err := e.Run(context.Background(), 15, 4, nil)
	if err == nil {
		t.Fatal("expected an error from a panicking unit")
	}
	if res != nil {
		t.Errorf("expected no result, got %d candidates", len(res.Candidates))
	}
	var searchErr apperrors.SearchError
	if !errors.As(err, &searchErr) || searchErr.Level != 15 {
		t.Errorf("expected SearchError for level 15, got %v", err)
	}
	var panicErr apperrors.UnitPanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected UnitPanicError in chain, got %v", err)
	}
	if panicErr.J2 != 1 || panicErr.J3 != 5 {
		t.Errorf("panic attributed to unit (%d, %d), want (1, 5)", panicErr.J2, panicErr.J3)
	}
	if len(panicErr.Stack) == 0 {
		t.Error("expected a captured stack")
	}
	if got := apperrors.ExitCode(err); got != apperrors.ExitErrorSearch {
		t.Errorf("ExitCode = %d, want %d", got, apperrors.ExitErrorSearch)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(WithWorkers(2)).Run(ctx, 15, 5, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_ProgressUpdates(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 128)
	res, err := New(WithWorkers(3)).Run(context.Background(), 15, 4, ch)
	if err != nil {
		t.Fatal(err)
	}
	close(ch)

	var updates []ProgressUpdate
	for u := range ch {
		updates = append(updates, u)
	}
	if len(updates) != res.Stats.Units {
		t.Fatalf("got %d updates, want one per unit (%d)", len(updates), res.Stats.Units)
	}
	last := updates[len(updates)-1]
	if last.Wave != last.Waves || last.UnitsDone != last.Units {
		t.Errorf("last update %+v does not mark completion", last)
	}
	if last.Fraction() != 1 {
		t.Errorf("last Fraction() = %v, want 1", last.Fraction())
	}
	if last.Survivors != len(res.Candidates) {
		t.Errorf("last Survivors = %d, want %d", last.Survivors, len(res.Candidates))
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Fraction() < updates[i-1].Fraction() {
			t.Fatalf("progress went backwards at update %d", i)
		}
	}
}

type recordingRecorder struct {
	mu      sync.Mutex
	reports []WaveReport
}

func (r *recordingRecorder) ObserveWave(w WaveReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, w)
}

func TestRun_RecorderSeesEveryWave(t *testing.T) {
	t.Parallel()
	rec := &recordingRecorder{}
	res := mustRun(t, New(WithRecorder(rec), WithWorkers(2)), 15, 4)

	var j2s []int
	var total Stats
	for _, w := range rec.reports {
		j2s = append(j2s, w.J2)
		total.Add(w.Stats)
		if w.Modulus != 30 {
			t.Errorf("wave report modulus = %d", w.Modulus)
		}
	}
	if diff := cmp.Diff([]int{1, 2, 3, 5, 6, 10, 15}, j2s); diff != "" {
		t.Errorf("wave order mismatch (-want +got):\n%s", diff)
	}
	if total != res.Stats {
		t.Errorf("wave stats sum to %+v, result has %+v", total, res.Stats)
	}
}

func TestWithWorkers_Default(t *testing.T) {
	t.Parallel()
	if New(WithWorkers(0)).Workers() < 1 {
		t.Error("WithWorkers(0) should select a positive worker count")
	}
	if got := New(WithWorkers(7)).Workers(); got != 7 {
		t.Errorf("Workers() = %d, want 7", got)
	}
}
