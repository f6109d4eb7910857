package align_test

import (
	"testing"

	"github.com/davejbax/alignkit/align"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// span is a width-agnostic consumer of the Addr capability: it computes the
// extent of an aligned region starting at or after base.
func span[T align.Addr[T]](base, alignment T) (start T, aligned bool) {
	return base.AlignUp(alignment), base.IsAlignedTo(alignment)
}

func TestAddrIsUsableGenerically(t *testing.T) {
	start8, aligned8 := span(align.U8(123), align.U8(2))
	assert.Equal(t, align.U8(124), start8)
	assert.False(t, aligned8)

	start64, aligned64 := span(align.U64(1<<40), align.U64(1<<40))
	assert.Equal(t, align.U64(1<<40), start64)
	assert.True(t, aligned64)

	start128, aligned128 := span(align.U128(3), align.Uint128{Hi: 1})
	assert.Equal(t, align.Uint128{Hi: 1}, start128)
	assert.False(t, aligned128)
}

// The capability methods must agree bit-for-bit with the free functions.
func TestAddrMatchesFreeFunctions(t *testing.T) {
	addrs := []uint16{0, 1, 2, 123, 0x7FFF, 0x8000, 0xFFFE, 0xFFFF}
	alignments := []uint16{1, 2, 16, 0x4000, 0x8000}

	for _, addr := range addrs {
		for _, alignment := range alignments {
			assert.Equal(t, align.Down(addr, alignment), uint16(align.U16(addr).AlignDown(align.U16(alignment))))
			assert.Equal(t, align.IsAligned(addr, alignment), align.U16(addr).IsAlignedTo(align.U16(alignment)))

			want, wantOK := align.CheckedUp(addr, alignment)
			got, gotOK := align.U16(addr).CheckedAlignUp(align.U16(alignment))
			require.Equal(t, wantOK, gotOK)
			assert.Equal(t, want, uint16(got))
		}
	}
}

func TestAddrAlignUpPanicsOnOverflow(t *testing.T) {
	require.Panics(t, func() { align.U8(0xFF).AlignUp(2) })
	require.Panics(t, func() { align.U64(^uint64(0)).AlignUp(2) })
	require.Panics(t, func() { align.Uptr(^uintptr(0)).AlignUp(2) })
}
