package image

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/davejbax/alignkit/internal/binio"
	"github.com/davejbax/alignkit/internal/layout"
)

var errBlobSizeChanged = errors.New("region content size changed between layout and write")

// Flat is a laid-out image ready to be written: the packed layout table at
// offset zero, then each region's content at its aligned offset, with zeros
// in the gaps.
type Flat struct {
	logger  *slog.Logger
	layout  *layout.Layout[uint64]
	table   *layout.Table
	blobs   []Blob
	padded  bool
}

// NewFlat computes the layout for the given regions. Region offsets start
// after the layout table, imageAlignment rounds up the total size, and
// padToSize controls whether WriteTo zero-fills the tail out to that size.
func NewFlat(logger *slog.Logger, regions []Region, imageAlignment uint64, padToSize bool) (*Flat, error) {
	layoutRegions := make([]layout.Region[uint64], 0, len(regions))
	blobs := make([]Blob, 0, len(regions))

	for _, region := range regions {
		layoutRegions = append(layoutRegions, layout.Region[uint64]{
			Name:      region.Name,
			Size:      region.Blob.Size(),
			Alignment: region.Alignment,
			Offset:    region.Offset,
		})
		blobs = append(blobs, region.Blob)
	}

	l, err := layout.New(logger, layout.Size(len(regions)), layoutRegions, imageAlignment)
	if err != nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}

	return &Flat{
		logger: logger,
		layout: l,
		table:  layout.NewTable(l),
		blobs:  blobs,
		padded: padToSize,
	}, nil
}

// Size returns the total image size, including any tail padding.
func (f *Flat) Size() uint64 {
	return f.layout.Size
}

// Placements exposes the computed layout, for callers that want to report it
// without writing anything.
func (f *Flat) Placements() []layout.Placement[uint64] {
	return f.layout.Placements
}

func (f *Flat) WriteTo(w io.Writer) (int64, error) {
	cw := &binio.CountingWriter{W: w}

	if _, err := f.table.WriteTo(cw); err != nil {
		return cw.Count(), fmt.Errorf("failed to write layout table: %w", err)
	}

	for i, placement := range f.layout.Placements {
		// Regions aren't contiguous: zero-fill the gap up to the next
		// aligned offset.
		if err := binio.PadTo(cw, int64(placement.Offset)); err != nil {
			return cw.Count(), fmt.Errorf("failed to pad before region '%s': %w", placement.Region.Name, err)
		}

		reader, err := f.blobs[i].Open()
		if err != nil {
			return cw.Count(), fmt.Errorf("failed to open region '%s': %w", placement.Region.Name, err)
		}

		written, err := io.Copy(cw, reader)
		_ = reader.Close()

		if err != nil {
			return cw.Count(), fmt.Errorf("failed to write region '%s': %w", placement.Region.Name, err)
		}

		if written != int64(placement.Region.Size) {
			return cw.Count(), fmt.Errorf("region '%s' wrote %d bytes, laid out %d: %w",
				placement.Region.Name, written, placement.Region.Size, errBlobSizeChanged)
		}

		f.logger.Debug("wrote image region",
			"region", placement.Region.Name,
			"offset", fmt.Sprintf("0x%02x", placement.Offset),
			"count", written,
		)
	}

	if f.padded {
		if err := binio.PadTo(cw, int64(f.layout.Size)); err != nil {
			return cw.Count(), fmt.Errorf("failed to write final zero padding: %w", err)
		}
	}

	return cw.Count(), nil
}
