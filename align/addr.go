package align

// Addr is the width-polymorphic view of the package: one interface exposing
// the alignment operations over every supported unsigned width, so that
// width-agnostic algorithms (a generic allocator, a layout engine) can be
// written once as
//
//	func f[T align.Addr[T]](addr T, ...) T
//
// rather than once per width. It is implemented by [U8], [U16], [U32], [U64],
// [Uptr], and [Uint128]; each implementation is a thin delegation to the free
// functions, so the two surfaces agree bit-for-bit on every input.
type Addr[T any] interface {
	// AlignDown returns the greatest multiple of alignment <= the address.
	AlignDown(alignment T) T

	// AlignUp returns the smallest multiple of alignment >= the address,
	// panicking on overflow.
	AlignUp(alignment T) T

	// CheckedAlignUp is AlignUp with overflow reported as ok == false
	// instead of a panic.
	CheckedAlignUp(alignment T) (T, bool)

	// IsAlignedTo reports whether the address is a multiple of alignment.
	IsAlignedTo(alignment T) bool
}

// Fixed-width address types implementing [Addr]. Uptr is the native machine
// word; the 128-bit width is [Uint128].
type (
	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64
	Uptr uintptr
)

var (
	_ Addr[U8]      = U8(0)
	_ Addr[U16]     = U16(0)
	_ Addr[U32]     = U32(0)
	_ Addr[U64]     = U64(0)
	_ Addr[Uptr]    = Uptr(0)
	_ Addr[Uint128] = Uint128{}
)

func (a U8) AlignDown(alignment U8) U8              { return Down(a, alignment) }
func (a U8) AlignUp(alignment U8) U8                { return Up(a, alignment) }
func (a U8) CheckedAlignUp(alignment U8) (U8, bool) { return CheckedUp(a, alignment) }
func (a U8) IsAlignedTo(alignment U8) bool          { return IsAligned(a, alignment) }

func (a U16) AlignDown(alignment U16) U16              { return Down(a, alignment) }
func (a U16) AlignUp(alignment U16) U16                { return Up(a, alignment) }
func (a U16) CheckedAlignUp(alignment U16) (U16, bool) { return CheckedUp(a, alignment) }
func (a U16) IsAlignedTo(alignment U16) bool           { return IsAligned(a, alignment) }

func (a U32) AlignDown(alignment U32) U32              { return Down(a, alignment) }
func (a U32) AlignUp(alignment U32) U32                { return Up(a, alignment) }
func (a U32) CheckedAlignUp(alignment U32) (U32, bool) { return CheckedUp(a, alignment) }
func (a U32) IsAlignedTo(alignment U32) bool           { return IsAligned(a, alignment) }

func (a U64) AlignDown(alignment U64) U64              { return Down(a, alignment) }
func (a U64) AlignUp(alignment U64) U64                { return Up(a, alignment) }
func (a U64) CheckedAlignUp(alignment U64) (U64, bool) { return CheckedUp(a, alignment) }
func (a U64) IsAlignedTo(alignment U64) bool           { return IsAligned(a, alignment) }

func (a Uptr) AlignDown(alignment Uptr) Uptr              { return Down(a, alignment) }
func (a Uptr) AlignUp(alignment Uptr) Uptr                { return Up(a, alignment) }
func (a Uptr) CheckedAlignUp(alignment Uptr) (Uptr, bool) { return CheckedUp(a, alignment) }
func (a Uptr) IsAlignedTo(alignment Uptr) bool            { return IsAligned(a, alignment) }
