package search

import (
	"time"

	"github.com/agbru/cassels/internal/cyclotomic"
	"github.com/agbru/cassels/internal/discard"
)

// Candidate is an exponent tuple that survived every discard rule, tagged
// with the modulus it belongs to. Exponents is owned by the candidate and
// never modified after the candidate is emitted.
type Candidate struct {
	Modulus   int
	Exponents []int
}

// Stats counts what a search did. ByRule[discard.Keep] is the number of
// survivors; the other entries count discards per rule.
type Stats struct {
	Examined uint64
	ByRule   [discard.NumRules]uint64
	Waves    int
	Units    int
}

// Survivors returns the number of tuples no rule discarded.
func (s Stats) Survivors() uint64 { return s.ByRule[discard.Keep] }

// Discarded returns the number of tuples some rule discarded.
func (s Stats) Discarded() uint64 { return s.Examined - s.Survivors() }

// Add merges o into s.
func (s *Stats) Add(o Stats) {
	s.Examined += o.Examined
	for i := range s.ByRule {
		s.ByRule[i] += o.ByRule[i]
	}
	s.Waves += o.Waves
	s.Units += o.Units
}

func (s *Stats) record(r discard.Rule) {
	s.Examined++
	s.ByRule[r]++
}

// Result is the outcome of one search invocation.
type Result struct {
	Level   int
	Modulus int
	MaxLen  int
	// Table is the sine/cosine table the search evaluated with.
	Table *cyclotomic.Table
	// Candidates holds every survivor, in no particular order.
	Candidates []Candidate
	Stats      Stats
	Duration   time.Duration
}

// ProgressUpdate reports the completion of one unit.
type ProgressUpdate struct {
	Level     int
	Modulus   int
	J2        int
	Wave      int // 1-based index of the current wave
	Waves     int
	UnitsDone int
	Units     int
	Survivors int // survivors collected so far in this invocation
}

// Fraction returns the completed share of the invocation, counting waves as
// equal parts.
func (p ProgressUpdate) Fraction() float64 {
	if p.Waves == 0 || p.Units == 0 {
		return 0
	}
	return (float64(p.Wave-1) + float64(p.UnitsDone)/float64(p.Units)) / float64(p.Waves)
}

// WaveReport summarizes one completed wave.
type WaveReport struct {
	Modulus int
	J2      int
	Units   int
	Stats   Stats
	Elapsed time.Duration
}

// Recorder receives a report after each completed wave. Implementations are
// called from the engine's goroutine only.
type Recorder interface {
	ObserveWave(report WaveReport)
}

type nopRecorder struct{}

func (nopRecorder) ObserveWave(WaveReport) {}
