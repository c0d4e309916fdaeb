package discard

import "github.com/agbru/cassels/internal/cyclotomic"

// fourTermTriples are the index triples (i, i1, i2) examined by the four-term
// theorem rule.
var fourTermTriples = [3][3]int{{1, 2, 3}, {2, 1, 3}, {3, 1, 2}}

// Discard reports whether x can be dropped. It is the boolean form of
// Evaluate.
func Discard(x cyclotomic.Integer, c Constants) bool {
	return Evaluate(x, c) != Keep
}

// Evaluate runs the discard rules on x in order and returns the first rule
// that fires, or Keep. x.Exponents must hold at least three exponents laid out
// as the search builds them: l[0] = 0, l[1] = j2, l[2] = j3.
//
// Evaluate is pure: it reads x and its table and writes nothing.
func Evaluate(x cyclotomic.Integer, c Constants) Rule {
	l := x.Exponents
	n := len(l)

	// Complex conjugation maps this tuple onto one the search also visits.
	if l[2]+l[n-1] > c.NN+l[1] {
		return Conjugation
	}
	// Two roots of unity differ by a factor of -1.
	for a := 1; a < n; a++ {
		for b := 0; b < a; b++ {
			if l[a] == l[b]+c.N2 {
				return SignPair
			}
		}
	}
	// Two roots of unity differ by a factor of ζ_3.
	if c.N3 != 0 {
		for a := 1; a < n; a++ {
			for b := 0; b < a; b++ {
				if l[a] == l[b]+c.N3 || l[a] == l[b]+2*c.N3 {
					return CubeRoot
				}
			}
		}
	}
	// Three roots of unity differ by factors of ζ_5.
	if c.N5 != 0 && hasChain(l, c.N5, 3) {
		return FifthRootChain
	}
	if !x.CastleStrictlyLess(CastleCutoff) {
		return Castle
	}
	// Visibly of form (2) in Cassels's theorem.
	if n == 3 && (l[2] == c.N2-l[1] || l[2] == c.N2+2*l[1] || (2*l[2])%c.NN == c.N2+l[1]) {
		return ThreeTerm
	}
	// Visibly of form (3) in Cassels's theorem.
	if c.N5 != 0 && n == 4 {
		for _, tr := range fourTermTriples {
			i, i1, i2 := tr[0], tr[1], tr[2]
			if l[i] < l[0] || l[i2] < l[i1] {
				continue
			}
			d1, d2 := l[i]-l[0], l[i2]-l[i1]
			if d1%c.N5 == 0 && d2%c.N5 == 0 && d1 != d2 && l[1]-l[0]+d2 != c.NN {
				return FourTerm
			}
		}
	}
	// Four roots of unity differ by factors of ζ_7.
	if c.N7 != 0 && hasChain(l, c.N7, 4) {
		return SeventhRootChain
	}
	return Keep
}

// hasChain reports whether l has indices i_1 > i_2 > ... > i_length whose
// values strictly decrease along the chain with every consecutive difference a
// multiple of m.
func hasChain(l []int, m, length int) bool {
	for a := 1; a < len(l); a++ {
		if chainFrom(l, a, m, length-1) {
			return true
		}
	}
	return false
}

// chainFrom extends a chain ending at index a by `links` more steps towards
// lower indices.
func chainFrom(l []int, a, m, links int) bool {
	if links == 0 {
		return true
	}
	for b := 0; b < a; b++ {
		if l[a] > l[b] && (l[a]-l[b])%m == 0 && chainFrom(l, b, m, links-1) {
			return true
		}
	}
	return false
}
