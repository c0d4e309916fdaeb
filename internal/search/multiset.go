package search

import "iter"

// Multisets yields every non-decreasing selection of k values from pool,
// repetition allowed, in lexicographic order of pool positions. For k = 0 it
// yields a single empty selection; for k > 0 and an empty pool it yields
// nothing.
//
// The yielded slice is reused between iterations; copy it to keep it.
func Multisets(pool []int, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k == 0 {
			yield([]int{})
			return
		}
		n := len(pool)
		if n == 0 {
			return
		}
		idx := make([]int, k)
		out := make([]int, k)
		for {
			for i, p := range idx {
				out[i] = pool[p]
			}
			if !yield(out) {
				return
			}
			i := k - 1
			for i >= 0 && idx[i] == n-1 {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[i]
			}
		}
	}
}
