// Package mmap provides read-only memory-mapped file access.
//
// Persisted dataset files can be large relative to the heap; mapping them
// lets the kernel page section payloads in on demand instead of copying
// whole files through userspace buffers.
//
// # Usage
//
//	m, err := mmap.Open("study.esd")
//	if err != nil { ... }
//	defer m.Close()
//
//	// Zero-copy access to file contents
//	data := m.Bytes()
//
//	// View into a single section
//	region, _ := m.Region(offset, size)
//
//	// Kernel hints for the expected access pattern
//	m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent readers. Close is idempotent.
// Callers must ensure no goroutine touches Bytes() after Close returns.
package mmap
