package cyclotomic

// GCD returns the greatest common divisor of a and b (Euclid). GCD(0, n) is n,
// which is what lets exponent 0 pass every gcd threshold of the search.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Divisors returns the divisors d of n with 1 <= d < n, ascending.
func Divisors(n int) []int {
	var ds []int
	for d := 1; d < n; d++ {
		if n%d == 0 {
			ds = append(ds, d)
		}
	}
	return ds
}
