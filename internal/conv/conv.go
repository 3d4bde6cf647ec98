// Package conv provides checked integer conversions for the NFA arena.
//
// State indices are stored as uint32. A conversion that would overflow means
// the program outgrew the arena's index space, which is an internal error, so
// these helpers panic instead of returning errors.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms do not overflow.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt converts n to int.
// Panics if n does not fit (only possible on 32-bit platforms).
//
//go:inline
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(n)
}
