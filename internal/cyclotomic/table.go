package cyclotomic

import (
	"iter"
	"math"

	apperrors "github.com/agbru/cassels/internal/errors"
)

// Entry is the sine and cosine of the angle 2πj/n for one residue j.
type Entry struct {
	Sin float64
	Cos float64
}

// Table holds the sine and cosine of every angle 2πj/n, 0 <= j < n.
//
// A Table is immutable once NewTable returns; concurrent reads need no
// synchronization.
type Table struct {
	modulus int
	entries []Entry
}

// NewTable builds the sine/cosine table for the given modulus.
//
// Sine and cosine of each index are produced by a single math.Sincos call on
// the same angle value, so the pair stays consistent when summed.
func NewTable(modulus int) (*Table, error) {
	if modulus < 1 {
		return nil, apperrors.ValidationError{Field: "modulus", Message: "must be at least 1"}
	}
	angle0 := 2 * math.Pi / float64(modulus)
	entries := make([]Entry, modulus)
	for j := range entries {
		s, c := math.Sincos(angle0 * float64(j))
		entries[j] = Entry{Sin: s, Cos: c}
	}
	return &Table{modulus: modulus, entries: entries}, nil
}

// Modulus returns the modulus the table was built for.
func (t *Table) Modulus() int { return t.modulus }

// Len returns the number of entries, which equals the modulus.
func (t *Table) Len() int { return len(t.entries) }

// At returns the sine and cosine of 2πj/n. j must lie in [0, n).
func (t *Table) At(j int) (sin, cos float64) {
	e := t.entries[j]
	return e.Sin, e.Cos
}

// Entries iterates over the table in residue order.
func (t *Table) Entries() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for j, e := range t.entries {
			if !yield(j, e) {
				return
			}
		}
	}
}
