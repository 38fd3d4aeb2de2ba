package matrix

import "fmt"

// Axis names one of the two matrix axes in errors and lookups.
type Axis int

const (
	// AxisRow is the row axis.
	AxisRow Axis = iota
	// AxisCol is the column axis.
	AxisCol
)

// String returns the string representation of the axis.
func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "row"
	case AxisCol:
		return "column"
	default:
		return "unknown"
	}
}

// ErrZeroDimension is a named error type for matrices with no rows or no
// columns.
type ErrZeroDimension struct {
	Rows int // Requested row count
	Cols int // Requested column count
}

// Error returns the error message for a zero dimension.
func (e *ErrZeroDimension) Error() string {
	return fmt.Sprintf("matrix must have at least one row and one column, got %dx%d", e.Rows, e.Cols)
}

// ErrShape is a named error type for a value slice whose length does not
// match rows*cols.
type ErrShape struct {
	Rows   int // Declared row count
	Cols   int // Declared column count
	Values int // Length of the value slice
}

// Error returns the error message for a shape mismatch.
func (e *ErrShape) Error() string {
	return fmt.Sprintf("shape mismatch: %d values for a %dx%d matrix, want %d", e.Values, e.Rows, e.Cols, e.Rows*e.Cols)
}

// ErrIDCount is a named error type for an identifier list whose length does
// not match the axis it is bound to.
type ErrIDCount struct {
	Axis Axis // Axis the identifiers were bound to
	Want int  // Axis length
	Got  int  // Identifier count
}

// Error returns the error message for an identifier count mismatch.
func (e *ErrIDCount) Error() string {
	return fmt.Sprintf("%d %s identifiers for %d %ss", e.Got, e.Axis, e.Want, e.Axis)
}

// ErrDuplicateID is a named error type for repeated axis identifiers.
type ErrDuplicateID struct {
	Axis   Axis   // Axis the identifier occurs on
	ID     string // Offending identifier
	First  int    // Position of the first occurrence
	Second int    // Position of the repeat
}

// Error returns the error message for a duplicate identifier.
func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("duplicate %s identifier %q at positions %d and %d", e.Axis, e.ID, e.First, e.Second)
}

// ErrUnknownID is a named error type for lookups of absent axis identifiers.
type ErrUnknownID struct {
	Axis Axis   // Axis that was searched
	ID   string // Identifier that was not found
}

// Error returns the error message for an unknown identifier.
func (e *ErrUnknownID) Error() string {
	return fmt.Sprintf("unknown %s identifier %q", e.Axis, e.ID)
}

// ErrNoIDs is a named error type for identifier lookups on an axis that has
// no identifiers bound.
type ErrNoIDs struct {
	Axis Axis // Axis without identifiers
}

// Error returns the error message for a missing identifier binding.
func (e *ErrNoIDs) Error() string {
	return fmt.Sprintf("no %s identifiers bound", e.Axis)
}

// ErrPositionOutOfRange is a named error type for positional selections
// outside the matrix.
type ErrPositionOutOfRange struct {
	Axis     Axis // Axis that was indexed
	Position int  // Requested position
	Size     int  // Axis length
}

// Error returns the error message for an out-of-range position.
func (e *ErrPositionOutOfRange) Error() string {
	return fmt.Sprintf("%s position %d out of range [0, %d)", e.Axis, e.Position, e.Size)
}
