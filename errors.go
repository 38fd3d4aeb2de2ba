package exprset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

var (
	// ErrNilMatrix is returned when a Set is constructed without a matrix.
	ErrNilMatrix = errors.New("matrix must not be nil")

	// ErrEmptyMatrix is returned when the matrix has no rows or no columns.
	ErrEmptyMatrix = errors.New("matrix must have at least one row and one column")

	// ErrSampleMismatch is returned when sample identifiers disagree between
	// the matrix columns and the sample table.
	ErrSampleMismatch = errors.New("sample identifiers do not match")

	// ErrFeatureMismatch is returned when feature identifiers disagree between
	// the matrix rows and the feature table.
	ErrFeatureMismatch = errors.New("feature identifiers do not match")

	// ErrMissingColumnIDs is returned when a sample table is bound to a matrix
	// that has no column identifiers.
	ErrMissingColumnIDs = errors.New("matrix has no column identifiers")

	// ErrMissingRowIDs is returned when a feature table is bound to a matrix
	// that has no row identifiers.
	ErrMissingRowIDs = errors.New("matrix has no row identifiers")

	// ErrPredicateOnRows is returned when a covariate predicate is used as a
	// row selector. Covariates describe samples, so predicates can only
	// select columns.
	ErrPredicateOnRows = errors.New("covariate predicates select samples, not features")

	// ErrEmptySelection is returned when a selector resolves to nothing.
	ErrEmptySelection = errors.New("selection matches no rows or columns")

	// ErrUnknownID unifies unknown-identifier failures from the matrix and
	// frame packages.
	ErrUnknownID = errors.New("unknown identifier")

	// ErrDuplicateID unifies duplicate-identifier failures from the matrix and
	// frame packages.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrShape unifies shape failures from the matrix and frame packages.
	ErrShape = errors.New("shape mismatch")

	// ErrOutOfRange unifies positional selection failures from the matrix and
	// frame packages.
	ErrOutOfRange = errors.New("position out of range")
)

// Axis identifies which identifier axis failed validation.
type Axis int

const (
	// AxisFeatures is the feature axis (matrix rows).
	AxisFeatures Axis = iota
	// AxisSamples is the sample axis (matrix columns).
	AxisSamples
)

// String returns the string representation of the axis.
func (a Axis) String() string {
	switch a {
	case AxisFeatures:
		return "features"
	case AxisSamples:
		return "samples"
	default:
		return "unknown"
	}
}

// ErrAlignment indicates identifier disagreement between a matrix axis and a
// bound annotation table. It carries the full symmetric difference so the
// caller sees every offending identifier at once.
//
// errors.Is(err, ErrSampleMismatch) or errors.Is(err, ErrFeatureMismatch)
// reports which axis failed.
type ErrAlignment struct {
	Axis    Axis     // Axis that failed
	Missing []string // In the matrix axis but absent from the table, sorted
	Extra   []string // In the table but absent from the matrix axis, sorted
	cause   error
}

// Error returns the error message for an alignment failure.
func (e *ErrAlignment) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s misaligned", e.Axis)

	if len(e.Missing) > 0 {
		fmt.Fprintf(&sb, ": missing from table: %s", strings.Join(e.Missing, ", "))
	}

	if len(e.Extra) > 0 {
		fmt.Fprintf(&sb, "; not in matrix: %s", strings.Join(e.Extra, ", "))
	}

	return sb.String()
}

func (e *ErrAlignment) Unwrap() error { return e.cause }

// ErrAssayShape is a named error type for an assay matrix whose dimensions
// disagree with the reference assay.
type ErrAssayShape struct {
	Name     string // Offending assay
	WantRows int
	WantCols int
	GotRows  int
	GotCols  int
}

// Error returns the error message for an assay shape mismatch.
func (e *ErrAssayShape) Error() string {
	return fmt.Sprintf("assay %q is %dx%d, want %dx%d", e.Name, e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}

// ErrUnknownAssay is a named error type for lookups of absent assay names.
type ErrUnknownAssay struct {
	Name string
}

// Error returns the error message for an unknown assay.
func (e *ErrUnknownAssay) Error() string {
	return fmt.Sprintf("unknown assay %q", e.Name)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Duplicate identifier unification.
	var mDup *matrix.ErrDuplicateID
	if errors.As(err, &mDup) {
		return fmt.Errorf("%w: %w", ErrDuplicateID, err)
	}
	var fDup *frame.ErrDuplicateRow
	if errors.As(err, &fDup) {
		return fmt.Errorf("%w: %w", ErrDuplicateID, err)
	}

	// Shape unification.
	var mShape *matrix.ErrShape
	if errors.As(err, &mShape) {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	var mCount *matrix.ErrIDCount
	if errors.As(err, &mCount) {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	var fShape *frame.ErrShapeMismatch
	if errors.As(err, &fShape) {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	var aShape *ErrAssayShape
	if errors.As(err, &aShape) {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}

	// Unknown identifier unification.
	var mUnknown *matrix.ErrUnknownID
	if errors.As(err, &mUnknown) {
		return fmt.Errorf("%w: %w", ErrUnknownID, err)
	}
	var fRow *frame.ErrUnknownRow
	if errors.As(err, &fRow) {
		return fmt.Errorf("%w: %w", ErrUnknownID, err)
	}
	var fCol *frame.ErrUnknownColumn
	if errors.As(err, &fCol) {
		return fmt.Errorf("%w: %w", ErrUnknownID, err)
	}

	// Positional selection normalization.
	var mRange *matrix.ErrPositionOutOfRange
	if errors.As(err, &mRange) {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	var fRange *frame.ErrPositionOutOfRange
	if errors.As(err, &fRange) {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	return err
}
