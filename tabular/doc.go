// Package tabular reads and writes expression matrices and covariate
// frames as delimited text (CSV, TSV, or any single-rune delimiter).
//
// The delimiter is auto-detected unless fixed with WithDelimiter. Matrix
// files carry column identifiers in the header row and row identifiers in
// the first column; both can be switched off for bare numeric dumps.
// Frame files infer a type per column (int, float, bool, falling back to
// string) unless the caller supplies a frame.Schema.
//
// The package hands back matrix.Dense and frame.Frame parts; binding them
// into a validated set is the caller's job.
package tabular
