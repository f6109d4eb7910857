package align

import (
	"fmt"
	"math/bits"
)

// Uint128 is a 128-bit unsigned address, stored as two 64-bit words. It
// carries the same alignment operations as the native widths, implemented
// with explicit carry propagation, and implements [Addr].
//
// The zero value is the address 0. Uint128 is comparable with ==.
type Uint128 struct {
	Hi, Lo uint64
}

// MaxUint128 is the largest representable 128-bit value.
var MaxUint128 = Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}

// U128 returns the Uint128 with the given low 64 bits and zero high bits.
func U128(lo uint64) Uint128 {
	return Uint128{Lo: lo}
}

// IsZero reports whether u is zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// IsPowerOfTwo reports whether u is a power of two (> 0).
func (u Uint128) IsPowerOfTwo() bool {
	return bits.OnesCount64(u.Hi)+bits.OnesCount64(u.Lo) == 1
}

// AlignDown returns the greatest multiple of alignment that is less than or
// equal to u. Panics if alignment is not a power of two.
func (u Uint128) AlignDown(alignment Uint128) Uint128 {
	mask := alignmentMask(alignment)
	return Uint128{Hi: u.Hi &^ mask.Hi, Lo: u.Lo &^ mask.Lo}
}

// CheckedAlignUp returns the smallest multiple of alignment that is greater
// than or equal to u, with ok == false iff that value does not fit in 128
// bits. Panics if alignment is not a power of two.
func (u Uint128) CheckedAlignUp(alignment Uint128) (aligned Uint128, ok bool) {
	mask := alignmentMask(alignment)
	if u.Hi&mask.Hi == 0 && u.Lo&mask.Lo == 0 {
		// Already aligned; no arithmetic, so no overflow.
		return u, true
	}

	lo, carry := bits.Add64(u.Lo|mask.Lo, 1, 0)
	hi, carry := bits.Add64(u.Hi|mask.Hi, 0, carry)

	return Uint128{Hi: hi, Lo: lo}, carry == 0
}

// AlignUp returns the smallest multiple of alignment that is greater than or
// equal to u, panicking if that value does not fit in 128 bits or if
// alignment is not a power of two.
func (u Uint128) AlignUp(alignment Uint128) Uint128 {
	aligned, ok := u.CheckedAlignUp(alignment)
	if !ok {
		panic(fmt.Sprintf("align: rounding %v up to alignment %v overflows", u, alignment))
	}

	return aligned
}

// IsAlignedTo reports whether u is a multiple of alignment. Panics if
// alignment is not a power of two.
func (u Uint128) IsAlignedTo(alignment Uint128) bool {
	return u.AlignDown(alignment) == u
}

// String formats u as a hexadecimal literal.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%#x", u.Lo)
	}

	return fmt.Sprintf("%#x%016x", u.Hi, u.Lo)
}

// alignmentMask validates the power-of-two precondition and returns
// alignment - 1, the mask of low bits to clear or fill.
func alignmentMask(alignment Uint128) Uint128 {
	if !alignment.IsPowerOfTwo() {
		panic(fmt.Sprintf("align: alignment %v is not a power of two", alignment))
	}

	if alignment.Lo == 0 {
		return Uint128{Hi: alignment.Hi - 1, Lo: ^uint64(0)}
	}

	return Uint128{Hi: alignment.Hi, Lo: alignment.Lo - 1}
}
