package orchestration

import (
	"cmp"
	"slices"

	"github.com/agbru/cassels/internal/search"
)

// Compare orders candidates by modulus, then lexicographically by exponents.
// A tuple sorts before any longer tuple it is a prefix of.
func Compare(a, b search.Candidate) int {
	if c := cmp.Compare(a.Modulus, b.Modulus); c != 0 {
		return c
	}
	return slices.Compare(a.Exponents, b.Exponents)
}

// SortCandidates sorts cs in place by Compare. The result depends only on
// the set of candidates, never on the order units delivered them in.
func SortCandidates(cs []search.Candidate) {
	slices.SortFunc(cs, Compare)
}
