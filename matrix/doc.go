// Package matrix provides an immutable dense float64 matrix with optional
// row and column identifiers.
//
// A Dense copies its values and identifiers at construction and exposes no
// mutating methods, so instances can be shared between goroutines without
// locking. Identifier lists are validated for length and uniqueness, and
// Slice produces a new validated Dense whose identifiers follow the
// selected rows and columns.
//
// The numeric representation is gonum's mat.Dense; Mat exposes it for
// statistical consumers that want to run gonum operations over the data.
package matrix
