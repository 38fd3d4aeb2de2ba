// Package dataset persists annotated matrix containers in a sectioned
// binary format.
//
// A dataset file starts with a fixed header carrying the format version,
// the per-section compression scheme, and the name of the codec used for
// the annotation sections. The matrix is stored in a dense binary layout;
// the sample table, feature table, and study record are stored as codec
// encoded sections. A directory at the end of the file records the offset,
// length, and CRC32 checksum of every section, and a fixed-size footer
// points at the directory, so readers can seek straight to any section and
// verify it independently.
//
// Loading always rebuilds the container through the exprset constructor,
// so a file whose sections no longer agree (hand-edited, produced by a
// buggy writer) fails with the same alignment errors as in-memory
// construction.
//
// Basic usage:
//
//	if err := dataset.WriteFile("study.esd", set); err != nil {
//		log.Fatal(err)
//	}
//
//	set, err := dataset.ReadFile("study.esd")
//	if err != nil {
//		log.Fatal(err)
//	}
package dataset
