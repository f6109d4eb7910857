// Package image turns a set of named input blobs into an output image whose
// contents sit at power-of-two aligned offsets: either a flat image headed by
// a packed layout table, or a FAT32 filesystem image carrying the flat image
// as a file.
package image

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
)

// Blob is a source of region content whose size is known ahead of layout.
type Blob interface {
	Open() (io.ReadCloser, error)
	Size() uint64
}

// Region names a blob and states where it may be placed.
type Region struct {
	Name string
	Blob Blob

	// Alignment must be a power of two; zero means none.
	Alignment uint64

	// Offset optionally pins the region to a fixed image offset.
	Offset *uint64
}

// FileBlob reads region content from a file on disk. Its size must be filled
// in by Preflight before layout.
type FileBlob struct {
	Path string

	size uint64
}

func (b *FileBlob) Open() (io.ReadCloser, error) {
	f, err := os.Open(b.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open region content '%s': %w", b.Path, err)
	}

	return f, nil
}

func (b *FileBlob) Size() uint64 {
	return b.size
}

// Preflight sizes and checksums every file-backed region concurrently, ahead
// of layout. The checksum is only logged, but catching unreadable inputs here
// means layout failures can only ever be layout problems.
func Preflight(logger *slog.Logger, regions []Region, parallelism int) error {
	eg := &errgroup.Group{}
	eg.SetLimit(parallelism)

	for _, region := range regions {
		blob, ok := region.Blob.(*FileBlob)
		if !ok {
			continue
		}

		eg.Go(func() error {
			stat, err := os.Stat(blob.Path)
			if err != nil {
				return fmt.Errorf("failed to stat region '%s' content: %w", region.Name, err)
			}

			blob.size = uint64(stat.Size())

			checksum, err := checksumFile(blob.Path)
			if err != nil {
				return fmt.Errorf("failed to checksum region '%s' content: %w", region.Name, err)
			}

			logger.Debug("checked region content",
				"region", region.Name,
				"path", blob.Path,
				"size", blob.size,
				"sha256", checksum,
			)

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("input pre-flight failed: %w", err)
	}

	return nil
}

func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("failed to read '%s': %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
