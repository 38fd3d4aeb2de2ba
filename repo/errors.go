package repo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/exprset/blobstore"
)

// ErrReadOnlyCatalog is returned by Publish when the configured catalog
// does not support writes.
var ErrReadOnlyCatalog = errors.New("repo: catalog is read-only")

// ErrUnknownAccession is a named error type for accessions the catalog
// cannot resolve. It unwraps to blobstore.ErrNotFound.
type ErrUnknownAccession struct {
	Accession string
}

// Error returns the error message for an unknown accession.
func (e *ErrUnknownAccession) Error() string {
	return fmt.Sprintf("repo: unknown accession %q", e.Accession)
}

// Unwrap allows errors.Is(err, blobstore.ErrNotFound).
func (e *ErrUnknownAccession) Unwrap() error { return blobstore.ErrNotFound }

// ErrChecksum is a named error type for a fetched blob whose bytes do not
// match the checksum recorded in the catalog.
type ErrChecksum struct {
	Accession string
	Expected  uint32
	Actual    uint32
}

// Error returns the error message for a catalog checksum mismatch.
func (e *ErrChecksum) Error() string {
	return fmt.Sprintf("repo: accession %q checksum mismatch: catalog 0x%08x, blob 0x%08x", e.Accession, e.Expected, e.Actual)
}
