// Package cyclotomic evaluates cyclotomic integers numerically.
//
// A cyclotomic integer of modulus n is represented by its exponent list
// (j_1, ..., j_k) and stands for the sum z^{j_1} + ... + z^{j_k}, where z is a
// primitive n-th root of unity. Evaluation goes through a [Table] of sines and
// cosines that is built once per modulus and shared read-only between all the
// goroutines working on that modulus.
package cyclotomic
