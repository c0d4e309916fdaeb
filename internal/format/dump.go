package format

import (
	"strconv"
)

// AppendTableLine appends one table dump line, "<NN> <j> <cos> <sin>\n", to
// dst. Floats use the shortest decimal form that round-trips, without an
// exponent.
func AppendTableLine(dst []byte, modulus, j int, cos, sin float64) []byte {
	dst = strconv.AppendInt(dst, int64(modulus), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(j), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, cos, 'f', -1, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, sin, 'f', -1, 64)
	return append(dst, '\n')
}

// TableLine is AppendTableLine into a fresh string.
func TableLine(modulus, j int, cos, sin float64) string {
	return string(AppendTableLine(nil, modulus, j, cos, sin))
}

// AppendCandidateLine appends one candidate dump line,
// "<NN>; [e0, e1, ...]\n", to dst.
func AppendCandidateLine(dst []byte, modulus int, exponents []int) []byte {
	dst = strconv.AppendInt(dst, int64(modulus), 10)
	dst = append(dst, "; ["...)
	for i, e := range exponents {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = strconv.AppendInt(dst, int64(e), 10)
	}
	return append(dst, "]\n"...)
}

// CandidateLine is AppendCandidateLine into a fresh string.
func CandidateLine(modulus int, exponents []int) string {
	return string(AppendCandidateLine(nil, modulus, exponents))
}
