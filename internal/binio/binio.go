// Package binio provides the small writer plumbing needed when emitting
// images whose contents sit at aligned, non-contiguous offsets: a byte
// counter and zero padding up to a target offset.
package binio

import (
	"errors"
	"fmt"
	"io"
)

var errPastOffset = errors.New("writer is already past the requested offset")

// CountingWriter wraps an io.Writer and tracks the number of bytes written
// through it, so callers can pad relative to an absolute image offset.
type CountingWriter struct {
	W io.Writer

	count int64
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	written, err := c.W.Write(p)
	c.count += int64(written)

	return written, err
}

// Count returns the total number of bytes written so far.
func (c *CountingWriter) Count() int64 {
	return c.count
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// Pad writes count zero bytes to w.
func Pad(w io.Writer, count int64) error {
	if _, err := io.CopyN(w, zeroReader{}, count); err != nil {
		return fmt.Errorf("failed to write zero padding: %w", err)
	}

	return nil
}

// PadTo writes zeros to c until exactly offset bytes have passed through it.
// Fails if the writer is already beyond offset.
func PadTo(c *CountingWriter, offset int64) error {
	if c.Count() > offset {
		return fmt.Errorf("cannot pad to offset %d at count %d: %w", offset, c.Count(), errPastOffset)
	}

	return Pad(c, offset-c.Count())
}
