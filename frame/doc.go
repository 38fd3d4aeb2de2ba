// Package frame provides annotated row/column tables for expression sets.
//
// A Frame binds ordered, unique row identifiers to ordered, typed columns.
// Columns carry a machine name, an optional human-readable label, and a
// declared value type. Cells hold small typed values (Value) designed for
// fast, reflection-free filtering.
//
// # Values
//
// Cell values can be:
//
//   - String: frame.String("female")
//   - Int: frame.Int(31)
//   - Float: frame.Float(0.75)
//   - Bool: frame.Bool(true)
//   - Array: frame.Array([]frame.Value{...})
//   - Null: frame.Null() for missing observations
//
// # Filters
//
// Filters select rows by their covariate values:
//
//	young := frame.NewFilterSet(
//	    frame.Lt("age", frame.Int(30)),
//	    frame.Eq("group", frame.String("Control")),
//	)
//	positions := pheno.Match(young)
//
// All filters in a set must match (AND logic). Equality and set-membership
// filters are answered from a Roaring Bitmap inverted index built at
// construction; other operators fall back to a columnar scan.
//
// # Immutability
//
// A Frame never changes after New returns. Select and SelectAt build new
// frames, so any number of goroutines may share one without locking.
package frame
