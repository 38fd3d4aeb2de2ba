package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSet is returned when writing a nil container.
	ErrNilSet = errors.New("dataset: set is nil")

	// ErrNilWriter is returned when writing to a nil writer.
	ErrNilWriter = errors.New("dataset: writer is nil")

	// ErrNilReader is returned when reading from a nil reader.
	ErrNilReader = errors.New("dataset: reader is nil")

	// ErrBadMagic is returned when the file does not start with the dataset
	// magic bytes.
	ErrBadMagic = errors.New("dataset: bad magic")

	// ErrBadVersion is returned when the file carries an unsupported format
	// version.
	ErrBadVersion = errors.New("dataset: unsupported format version")

	// ErrUnknownCodec is returned when the header names a codec this build
	// does not know.
	ErrUnknownCodec = errors.New("dataset: unknown codec")

	// ErrUnknownCompression is returned when the header carries a
	// compression id this build does not know.
	ErrUnknownCompression = errors.New("dataset: unknown compression")

	// ErrTruncated is returned when the file is shorter than its own
	// structure claims.
	ErrTruncated = errors.New("dataset: truncated file")

	// ErrMissingSection is returned when a required section is absent from
	// the directory.
	ErrMissingSection = errors.New("dataset: missing section")
)

// ChecksumError is returned when a section's stored checksum does not match
// the bytes on disk.
type ChecksumError struct {
	Section  string
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dataset: %s section checksum mismatch: expected 0x%08x, got 0x%08x", e.Section, e.Expected, e.Actual)
}

// IsChecksumError returns true if err is a section checksum mismatch.
func IsChecksumError(err error) bool {
	var ce *ChecksumError
	return errors.As(err, &ce)
}
