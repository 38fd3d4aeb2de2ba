package mmap

import "errors"

// AccessPattern hints the kernel at how a mapped dataset file will be
// read. Sequential fits full decodes, Random fits directory-driven
// section access through a caching store.
type AccessPattern int

const (
	// AccessDefault gives the kernel no advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects a front-to-back read, as in a full decode.
	AccessSequential
	// AccessRandom expects scattered section reads.
	AccessRandom
	// AccessWillNeed asks the kernel to start paging the file in.
	AccessWillNeed
	// AccessDontNeed tells the kernel the pages can be dropped.
	AccessDontNeed
)

var (
	// ErrClosed is returned when a mapping is used after Close.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned when a requested region leaves the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned for a negative read offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
