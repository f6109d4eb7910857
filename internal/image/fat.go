package image

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/davejbax/alignkit/align"
	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/backend/file"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
)

const (
	// Bytes needed on top of the payload for FAT headers etc.
	fatOverhead   = 1024
	fatAlign      = 512
	fat32MinSize  = 33 * 1024 * 1024
	fatImageName  = "LAYOUT.IMG"
	fatDirectory  = "/"
)

// WriteFAT writes flat into a fresh FAT32 filesystem image as a single file,
// staging the image in tempDir, and copies the result to output. The
// filesystem size is the aligned payload size plus filesystem overhead,
// clamped to the FAT32 minimum.
func WriteFAT(tempDir string, flat *Flat, label string, output io.Writer) error {
	staging, err := os.CreateTemp(tempDir, "alignkit-*.img")
	if err != nil {
		return fmt.Errorf("failed to create temporary FAT image for writing: %w", err)
	}
	defer staging.Close()
	defer os.Remove(staging.Name())

	if err := staging.Truncate(int64(fatSize(flat.Size()))); err != nil {
		return fmt.Errorf("failed to resize FAT image: %w", err)
	}

	fatDisk, err := diskfs.OpenBackend(file.New(staging, false))
	if err != nil {
		return fmt.Errorf("failed to open FAT file as filesystem: %w", err)
	}

	fatFs, err := fatDisk.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0, // 0 = create filesystem on entire image
		FSType:      filesystem.TypeFat32,
		VolumeLabel: label,
	})
	if err != nil {
		return fmt.Errorf("failed to create FAT32 filesystem: %w", err)
	}

	filepath := path.Join(fatDirectory, fatImageName)
	payload, err := fatFs.OpenFile(filepath, os.O_CREATE|os.O_RDWR)
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", filepath, err)
	}

	if _, err := flat.WriteTo(payload); err != nil {
		return fmt.Errorf("failed to write flat image into FAT filesystem: %w", err)
	}

	if _, err := staging.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind FAT image: %w", err)
	}

	if _, err := io.Copy(output, staging); err != nil {
		return fmt.Errorf("failed to write FAT image to output: %w", err)
	}

	return nil
}

// fatSize guesses the filesystem image size needed for a payload of the
// given size.
func fatSize(payload uint64) uint64 {
	size := align.Up(payload, uint64(fatAlign)) + fatOverhead

	return max(size, fat32MinSize)
}
