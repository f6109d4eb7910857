// Package layout places named regions at power-of-two aligned offsets within
// a flat image, starting from an optional fixed header, and computes the
// total aligned image size.
package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/davejbax/alignkit/align"
)

var (
	errZeroSizeRegion       = errors.New("region has zero size")
	errAlignmentNotPowerOf2 = errors.New("region alignment is not a power of two")
	errFixedOffsetUnaligned = errors.New("fixed offset does not satisfy the region alignment")
	errFixedOffsetOverlaps  = errors.New("fixed offset overlaps a previously placed region")
	errAddressOverflow      = errors.New("placement overflows the address width")
)

// Width is the set of offset widths the engine can lay out in.
type Width interface {
	uint32 | uint64
}

// Region is a request to place Size bytes somewhere in the image.
type Region[N Width] struct {
	Name string
	Size N

	// Alignment the region's offset must satisfy; must be a power of two.
	// Zero means no requirement (equivalent to 1).
	Alignment N

	// Offset pins the region to a fixed position instead of placing it at
	// the next aligned offset. Pinned regions must still appear in offset
	// order relative to their neighbours.
	Offset *N
}

// Placement is a region with its assigned offset.
type Placement[N Width] struct {
	Region Region[N]
	Offset N
}

// Layout is the result of placing every region: offsets are aligned, regions
// do not overlap, and Size is the total image size rounded up to the image
// alignment.
type Layout[N Width] struct {
	Placements []Placement[N]
	Size       N
}

// New lays out regions in order, starting at base (the first byte available
// after any image header). imageAlignment, which must be a power of two or
// zero, rounds up the total size; zero means no rounding.
//
// Placement failures are returned as errors rather than panics: sizes and
// offsets come from user input, so running out of address space here is a
// legitimate runtime condition, not a bug.
func New[N Width](logger *slog.Logger, base N, regions []Region[N], imageAlignment N) (*Layout[N], error) {
	if imageAlignment == 0 {
		imageAlignment = 1
	}

	if !align.IsPowerOfTwo(imageAlignment) {
		return nil, fmt.Errorf("image: %w", errAlignmentNotPowerOf2)
	}

	cursor := base
	placements := make([]Placement[N], 0, len(regions))

	for _, region := range regions {
		alignment := region.Alignment
		if alignment == 0 {
			alignment = 1
		}

		if !align.IsPowerOfTwo(alignment) {
			return nil, fmt.Errorf("region '%s': %w", region.Name, errAlignmentNotPowerOf2)
		}

		if region.Size == 0 {
			return nil, fmt.Errorf("region '%s': %w", region.Name, errZeroSizeRegion)
		}

		var offset N
		if region.Offset != nil {
			offset = *region.Offset

			if !align.IsAligned(offset, alignment) {
				return nil, fmt.Errorf("region '%s': %w", region.Name, errFixedOffsetUnaligned)
			}

			if offset < cursor {
				return nil, fmt.Errorf("region '%s': %w", region.Name, errFixedOffsetOverlaps)
			}
		} else {
			var ok bool
			offset, ok = align.CheckedUp(cursor, alignment)
			if !ok {
				return nil, fmt.Errorf("region '%s': %w", region.Name, errAddressOverflow)
			}
		}

		end := offset + region.Size
		if end < offset {
			return nil, fmt.Errorf("region '%s': %w", region.Name, errAddressOverflow)
		}

		logger.Debug("placed region",
			"region", region.Name,
			"offset", fmt.Sprintf("0x%02x", uint64(offset)),
			"size", uint64(region.Size),
			"alignment", uint64(alignment),
		)

		placements = append(placements, Placement[N]{Region: region, Offset: offset})
		cursor = end
	}

	size, ok := align.CheckedUp(cursor, imageAlignment)
	if !ok {
		return nil, fmt.Errorf("image size: %w", errAddressOverflow)
	}

	return &Layout[N]{
		Placements: placements,
		Size:       size,
	}, nil
}
