package cyclotomic

import "iter"

// Integer is a cyclotomic integer together with the table used to evaluate
// it. Exponents and Table are borrowed: Integer never modifies them.
type Integer struct {
	Modulus   int
	Exponents []int
	Table     *Table
}

// ConjugateSquaredModuli yields |σ_k(x)|² for every Galois automorphism σ_k,
// that is for every k in [1, Modulus) coprime to Modulus, in increasing k.
//
// The sequence is lazy: a conjugate is only computed when the consumer asks
// for it.
func (x Integer) ConjugateSquaredModuli() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		n := x.Modulus
		for k := 1; k < n; k++ {
			if GCD(k, n) != 1 {
				continue
			}
			var sinSum, cosSum float64
			for _, j := range x.Exponents {
				s, c := x.Table.At(conjugateIndex(k, j, n))
				sinSum += s
				cosSum += c
			}
			if !yield(sinSum*sinSum + cosSum*cosSum) {
				return
			}
		}
	}
}

// conjugateIndex returns k·j mod n. The product is formed in 64 bits: for the
// largest moduli it exceeds the range of a 32-bit int.
func conjugateIndex(k, j, n int) int {
	return int(uint64(k) * uint64(j) % uint64(n))
}

// CastleStrictlyLess reports whether every conjugate has squared modulus
// strictly below cutoff. It stops at the first conjugate reaching the cutoff.
func (x Integer) CastleStrictlyLess(cutoff float64) bool {
	for v := range x.ConjugateSquaredModuli() {
		if v >= cutoff {
			return false
		}
	}
	return true
}
