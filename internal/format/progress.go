package format

import (
	"strings"
)

// ProgressState holds the progress of each run of a plan and averages them
// into one figure.
type ProgressState struct {
	progresses []float64
	numRuns    int
}

// NewProgressState tracks numRuns runs, all at zero.
func NewProgressState(numRuns int) *ProgressState {
	if numRuns < 0 {
		numRuns = 0
	}
	return &ProgressState{
		progresses: make([]float64, numRuns),
		numRuns:    numRuns,
	}
}

// Update records the progress of run index, clamped to [0, 1]. Out of range
// indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = clamp01(value)
	}
}

// CalculateAverage returns the mean progress over all runs.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numRuns == 0 {
		return 0.0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numRuns)
}

// ProgressBar renders progress as a bar of length runes.
func ProgressBar(progress float64, length int) string {
	count := int(clamp01(progress) * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

func clamp01(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}
