package layout

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/davejbax/alignkit/internal/binio"
	"github.com/lunixbochs/struc"
)

const (
	// TableVersion is the current version of the packed table format.
	TableVersion = 1

	entryNameLength = 16

	headerSize = 12
	entrySize  = entryNameLength + 24
)

// ALTB
var tableMagic = []byte{0x41, 0x4C, 0x54, 0x42}

type tableHeader struct {
	Version     uint16
	RegionCount uint16
	ImageSize   uint64
}

type tableEntry struct {
	Name      []byte `struc:"[16]uint8"`
	Offset    uint64
	Size      uint64
	Alignment uint64
}

// Table is the packed, little-endian description of a layout, written at the
// start of flat images so that consumers can locate regions without
// reparsing the manifest: a magic, a fixed header, and one fixed-size entry
// per region.
type Table struct {
	header  *tableHeader
	entries []*tableEntry
}

// NewTable builds the packed table for a layout.
func NewTable(l *Layout[uint64]) *Table {
	entries := make([]*tableEntry, 0, len(l.Placements))

	for _, placement := range l.Placements {
		alignment := placement.Region.Alignment
		if alignment == 0 {
			alignment = 1
		}

		entries = append(entries, &tableEntry{
			Name:      entryName(placement.Region.Name),
			Offset:    placement.Offset,
			Size:      placement.Region.Size,
			Alignment: alignment,
		})
	}

	return &Table{
		header: &tableHeader{
			Version:     TableVersion,
			RegionCount: uint16(len(entries)),
			ImageSize:   l.Size,
		},
		entries: entries,
	}
}

// Size returns the number of bytes WriteTo will produce for a table with the
// given number of regions. The table format is fixed-size, so this is known
// without packing anything.
func Size(regions int) uint64 {
	return uint64(len(tableMagic)) + headerSize + entrySize*uint64(regions)
}

func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &binio.CountingWriter{W: w}

	if _, err := cw.Write(tableMagic); err != nil {
		return cw.Count(), fmt.Errorf("failed to write table magic: %w", err)
	}

	if err := struc.PackWithOptions(cw, t.header, &struc.Options{Order: binary.LittleEndian}); err != nil {
		return cw.Count(), fmt.Errorf("failed to write table header: %w", err)
	}

	for i, entry := range t.entries {
		if err := struc.PackWithOptions(cw, entry, &struc.Options{Order: binary.LittleEndian}); err != nil {
			return cw.Count(), fmt.Errorf("failed to write table entry %d: %w", i, err)
		}
	}

	return cw.Count(), nil
}

// entryName truncates or zero-pads a region name to the fixed entry width.
func entryName(name string) []byte {
	out := make([]byte, entryNameLength)
	copy(out, name)

	return out
}
