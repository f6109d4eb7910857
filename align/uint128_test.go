package align_test

import (
	"math"
	"testing"

	"github.com/davejbax/alignkit/align"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint128IsPowerOfTwo(t *testing.T) {
	assert.False(t, align.Uint128{}.IsPowerOfTwo())
	assert.True(t, align.U128(1).IsPowerOfTwo())
	assert.True(t, align.U128(1<<63).IsPowerOfTwo())
	assert.True(t, align.Uint128{Hi: 1}.IsPowerOfTwo())
	assert.True(t, align.Uint128{Hi: 1 << 63}.IsPowerOfTwo())
	assert.False(t, align.Uint128{Hi: 1, Lo: 1}.IsPowerOfTwo())
	assert.False(t, align.MaxUint128.IsPowerOfTwo())
}

func TestUint128AlignDown(t *testing.T) {
	tests := []struct {
		name      string
		addr      align.Uint128
		alignment align.Uint128
		want      align.Uint128
	}{
		{"low word only", align.U128(123), align.U128(2), align.U128(122)},
		{"alignment one is identity", align.MaxUint128, align.U128(1), align.MaxUint128},
		{"boundary crossing words", align.Uint128{Hi: 5, Lo: 123}, align.Uint128{Hi: 1}, align.Uint128{Hi: 5}},
		{"high word alignment on max", align.MaxUint128, align.Uint128{Hi: 1 << 63}, align.Uint128{Hi: 1 << 63}},
		{"zero stays zero", align.Uint128{}, align.Uint128{Hi: 1}, align.Uint128{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.AlignDown(tt.alignment))
		})
	}
}

func TestUint128CheckedAlignUp(t *testing.T) {
	// Carry must propagate from the low word into the high word.
	got, ok := align.Uint128{Hi: 2, Lo: ^uint64(0)}.CheckedAlignUp(align.U128(2))
	require.True(t, ok)
	assert.Equal(t, align.Uint128{Hi: 3}, got)

	// Alignment spanning into the high word.
	got, ok = align.Uint128{Hi: 1, Lo: 1}.CheckedAlignUp(align.Uint128{Hi: 2})
	require.True(t, ok)
	assert.Equal(t, align.Uint128{Hi: 2}, got)

	// Already-aligned addresses short-circuit, even at the very top.
	got, ok = align.MaxUint128.CheckedAlignUp(align.U128(1))
	require.True(t, ok)
	assert.Equal(t, align.MaxUint128, got)

	// The maximum value is odd, so rounding it up to 2 cannot fit.
	_, ok = align.MaxUint128.CheckedAlignUp(align.U128(2))
	assert.False(t, ok)

	_, ok = align.Uint128{Hi: ^uint64(0), Lo: 1}.CheckedAlignUp(align.Uint128{Hi: 1})
	assert.False(t, ok)
}

func TestUint128AlignUpPanics(t *testing.T) {
	require.Panics(t, func() { align.MaxUint128.AlignUp(align.U128(2)) })
	require.Panics(t, func() { align.U128(42).AlignUp(align.U128(3)) })
	require.Panics(t, func() { align.U128(42).AlignDown(align.Uint128{}) })
	require.Panics(t, func() { align.U128(42).IsAlignedTo(align.Uint128{Hi: 1, Lo: 1}) })
}

// Values that fit in 64 bits must behave identically to the uint64 path.
func FuzzUint128MatchesUint64(f *testing.F) {
	f.Add(uint64(123), uint(1))
	f.Add(uint64(math.MaxUint64), uint(0))
	f.Add(uint64(math.MaxUint64-1), uint(1))

	f.Fuzz(func(t *testing.T, addr uint64, alignBits uint) {
		alignment := uint64(1) << (alignBits % 64)

		down := align.U128(addr).AlignDown(align.U128(alignment))
		if want := align.Down(addr, alignment); down != align.U128(want) {
			t.Fatalf("AlignDown(%#x, %#x) = %v, want %#x", addr, alignment, down, want)
		}

		up, ok := align.U128(addr).CheckedAlignUp(align.U128(alignment))
		want, wantOK := align.CheckedUp(addr, alignment)
		if wantOK != ok && !wantOK {
			// uint64 overflow is not 128-bit overflow: the result simply
			// carries into the high word.
			if (up != align.Uint128{Hi: 1}) || !ok {
				t.Fatalf("CheckedAlignUp(%#x, %#x) = %v, %v; want carry into high word", addr, alignment, up, ok)
			}
		} else if wantOK != ok || (ok && up != align.U128(want)) {
			t.Fatalf("CheckedAlignUp(%#x, %#x) = %v, %v; want %#x, %v", addr, alignment, up, ok, want, wantOK)
		}

		if aligned := align.U128(addr).IsAlignedTo(align.U128(alignment)); aligned != align.IsAligned(addr, alignment) {
			t.Fatalf("IsAlignedTo(%#x, %#x) disagrees with the uint64 path", addr, alignment)
		}
	})
}
