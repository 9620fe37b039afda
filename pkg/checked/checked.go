// Package checked implements overflow-checked 64-bit arithmetic for the
// handful of curve formulas (sale price, auction bid floor, Ki harvest)
// that fall back to a safe default rather than wrapping on overflow.
// Grounded on original_source/program/util/util_math.c's checked_add /
// checked_multiply, reimplemented with math/bits.Mul64 in place of the
// original's schoolbook multiplication.
package checked

import "math/bits"

// Add returns x+y and sets *overflowed to true if the addition wrapped.
// An already-true *overflowed is left true regardless of this call's own
// result, matching the original's "sticky" overflow flag.
func Add(x, y uint64, overflowed *bool) uint64 {
	result := x + y
	if result < x || result < y {
		*overflowed = true
	}
	return result
}

// Multiply returns x*y and sets *overflowed to true if the product does
// not fit in 64 bits.
func Multiply(x, y uint64, overflowed *bool) uint64 {
	hi, lo := bits.Mul64(x, y)
	if hi != 0 {
		*overflowed = true
	}
	return lo
}
