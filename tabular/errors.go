package tabular

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the input holds no data rows.
var ErrEmptyInput = errors.New("tabular: empty input")

// ErrRaggedRow is returned when a data row has a different number of
// fields than the header.
type ErrRaggedRow struct {
	Line     int
	Expected int
	Actual   int
}

func (e *ErrRaggedRow) Error() string {
	return fmt.Sprintf("tabular: line %d has %d fields, expected %d", e.Line, e.Actual, e.Expected)
}

// ParseError describes one cell that could not be parsed. Line is
// 1-based and counts the header row.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tabular: line %d, column %q: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
