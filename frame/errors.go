package frame

import "fmt"

// ErrDuplicateRow is a named error type for repeated row identifiers.
type ErrDuplicateRow struct {
	ID     string // Offending identifier
	First  int    // Position of the first occurrence
	Second int    // Position of the repeat
}

// Error returns the error message for a duplicate row identifier.
func (e *ErrDuplicateRow) Error() string {
	return fmt.Sprintf("duplicate row identifier %q at positions %d and %d", e.ID, e.First, e.Second)
}

// ErrDuplicateColumn is a named error type for repeated column names.
type ErrDuplicateColumn struct {
	Name string
}

// Error returns the error message for a duplicate column name.
func (e *ErrDuplicateColumn) Error() string {
	return fmt.Sprintf("duplicate column %q", e.Name)
}

// ErrShapeMismatch is a named error type for data that does not match the
// declared row/column counts. Row is empty when the record count itself is
// wrong; otherwise it names the row whose record has the wrong width.
type ErrShapeMismatch struct {
	Row      string
	Expected int
	Actual   int
}

// Error returns the error message for a shape mismatch.
func (e *ErrShapeMismatch) Error() string {
	if e.Row == "" {
		return fmt.Sprintf("shape mismatch: %d records for %d rows", e.Actual, e.Expected)
	}
	return fmt.Sprintf("shape mismatch: row %q has %d values, want %d", e.Row, e.Actual, e.Expected)
}

// ErrUnknownRow is a named error type for lookups of absent row identifiers.
type ErrUnknownRow struct {
	ID string
}

// Error returns the error message for an unknown row identifier.
func (e *ErrUnknownRow) Error() string {
	return fmt.Sprintf("unknown row identifier %q", e.ID)
}

// ErrUnknownColumn is a named error type for lookups of absent columns.
type ErrUnknownColumn struct {
	Name string
}

// Error returns the error message for an unknown column.
func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column %q", e.Name)
}

// ErrPositionOutOfRange is a named error type for positional selections
// outside the table.
type ErrPositionOutOfRange struct {
	Position int
	Size     int
}

// Error returns the error message for an out-of-range position.
func (e *ErrPositionOutOfRange) Error() string {
	return fmt.Sprintf("position %d out of range [0, %d)", e.Position, e.Size)
}

// ErrValueType is a named error type for cell values that violate the
// declared column type.
type ErrValueType struct {
	Row    string
	Column string
	Kind   Kind
	Want   FieldType
}

// Error returns the error message for a value type violation.
func (e *ErrValueType) Error() string {
	return fmt.Sprintf("row %q column %q holds %s, want %s", e.Row, e.Column, e.Kind, e.Want)
}

// ErrMissingLabel is a named error type for columns without a label.
type ErrMissingLabel struct {
	Column string
}

// Error returns the error message for a missing column label.
func (e *ErrMissingLabel) Error() string {
	return fmt.Sprintf("column %q has no label", e.Column)
}
