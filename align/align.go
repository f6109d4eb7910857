// Package align provides power-of-two alignment arithmetic for unsigned
// integer addresses, offsets, and sizes.
//
// The free functions in this package are generic over every native unsigned
// width (8, 16, 32, 64 bits, plus uint and uintptr); [Uint128] covers the
// 128-bit case. Both operands of an operation share a single width: there is
// no coercion or promotion between widths.
//
// Alignments must be powers of two. Passing anything else (including zero) is
// a programming error and panics. The only runtime failure mode in the
// package is overflow when rounding up near the top of a width's range, which
// [CheckedUp] reports explicitly; nothing here ever wraps silently.
package align

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Down returns the greatest multiple of alignment that is less than or equal
// to addr. It cannot overflow, and aligning an already-aligned address (or
// aligning to 1) returns addr unchanged.
//
// Panics if alignment is not a power of two.
func Down[U constraints.Unsigned](addr, alignment U) U {
	mustPowerOfTwo(alignment)
	return addr &^ (alignment - 1)
}

// CheckedUp returns the smallest multiple of alignment that is greater than
// or equal to addr. ok is false iff no such value is representable in U, which
// happens exactly when addr is unaligned and lies within alignment of the
// width's maximum value.
//
// Panics if alignment is not a power of two.
func CheckedUp[U constraints.Unsigned](addr, alignment U) (aligned U, ok bool) {
	mustPowerOfTwo(alignment)

	mask := alignment - 1
	if addr&mask == 0 {
		// Already aligned. Checking this before doing any arithmetic means
		// addresses at the very top of the range don't spuriously overflow.
		return addr, true
	}

	// addr|mask is one below the next boundary; the addend is exactly 1, so
	// the sum wraps to zero iff the addition overflows.
	aligned = (addr | mask) + 1
	return aligned, aligned != 0
}

// Up returns the smallest multiple of alignment that is greater than or equal
// to addr. It is [CheckedUp] for call sites that have already established that
// overflow cannot happen: if rounding up would overflow the width, Up panics.
func Up[U constraints.Unsigned](addr, alignment U) U {
	aligned, ok := CheckedUp(addr, alignment)
	if !ok {
		panic(fmt.Sprintf("align: rounding %#x up to alignment %#x overflows", uint64(addr), uint64(alignment)))
	}

	return aligned
}

// IsAligned reports whether addr is a multiple of alignment. Zero is aligned
// to everything, and everything is aligned to 1.
//
// Panics if alignment is not a power of two.
func IsAligned[U constraints.Unsigned](addr, alignment U) bool {
	return Down(addr, alignment) == addr
}

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo[U constraints.Unsigned](x U) bool {
	return x != 0 && x&(x-1) == 0
}

func mustPowerOfTwo[U constraints.Unsigned](alignment U) {
	if !IsPowerOfTwo(alignment) {
		panic(fmt.Sprintf("align: alignment %#x is not a power of two", uint64(alignment)))
	}
}
