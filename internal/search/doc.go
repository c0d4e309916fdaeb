// Package search enumerates the exponent tuples admissible for one level and
// classifies each of them with the discard rules.
//
// The search runs in waves, one per proper divisor j2 of the modulus. Inside a
// wave every admissible third exponent j3 gets its own unit; units run on a
// bounded errgroup, share the modulus's sine/cosine table read-only, and
// report their survivors and per-rule counts over the wave's channel to a
// single collector. A wave ends when all its units returned and the channel
// is drained. The order of the collected candidates is unspecified; callers
// sort them.
package search
