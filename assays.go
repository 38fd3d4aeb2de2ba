package exprset

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

// Assays is a container for multiple named expression matrices that share
// both axes and a single annotation binding. The typical case is raw and
// normalized measurements of the same experiment kept side by side.
//
// Every matrix must have the same dimensions and, when identifiers are
// bound, identical identifier lists in identical order. Like Set, an
// Assays is immutable after construction.
type Assays struct {
	names    []string
	matrices map[string]*matrix.Dense
	set      *Set // annotation bound to the reference matrix
}

// NewAssays creates an Assays from named matrices. The reference matrix is
// the first in lexical name order; every other matrix is validated against
// it, then the annotation options are validated once against the reference.
func NewAssays(ms map[string]*matrix.Dense, optFns ...Option) (*Assays, error) {
	if len(ms) == 0 {
		return nil, ErrNilMatrix
	}

	names := slices.Sorted(maps.Keys(ms))

	ref := ms[names[0]]
	if ref == nil {
		return nil, fmt.Errorf("assay %q: %w", names[0], ErrNilMatrix)
	}

	for _, name := range names[1:] {
		m := ms[name]
		if m == nil {
			return nil, fmt.Errorf("assay %q: %w", name, ErrNilMatrix)
		}

		if err := matchAssay(name, ref, m); err != nil {
			return nil, translateError(err)
		}
	}

	set, err := New(ref, optFns...)
	if err != nil {
		return nil, err
	}

	return &Assays{
		names:    names,
		matrices: maps.Clone(ms),
		set:      set,
	}, nil
}

// matchAssay checks that a matrix agrees with the reference in shape and
// identifier bindings.
func matchAssay(name string, ref, m *matrix.Dense) error {
	if m.Rows() != ref.Rows() || m.Cols() != ref.Cols() {
		return &ErrAssayShape{
			Name:     name,
			WantRows: ref.Rows(),
			WantCols: ref.Cols(),
			GotRows:  m.Rows(),
			GotCols:  m.Cols(),
		}
	}

	if !slices.Equal(m.RowIDs(), ref.RowIDs()) {
		missing, extra := diffIDs(ref.RowIDs(), m.RowIDs())
		return fmt.Errorf("assay %q: %w", name, &ErrAlignment{
			Axis:    AxisFeatures,
			Missing: missing,
			Extra:   extra,
			cause:   ErrFeatureMismatch,
		})
	}

	if !slices.Equal(m.ColIDs(), ref.ColIDs()) {
		missing, extra := diffIDs(ref.ColIDs(), m.ColIDs())
		return fmt.Errorf("assay %q: %w", name, &ErrAlignment{
			Axis:    AxisSamples,
			Missing: missing,
			Extra:   extra,
			cause:   ErrSampleMismatch,
		})
	}

	return nil
}

// Names returns the assay names in lexical order.
func (a *Assays) Names() []string {
	return slices.Clone(a.names)
}

// Assay returns the matrix bound to the given name.
func (a *Assays) Assay(name string) (*matrix.Dense, error) {
	m, ok := a.matrices[name]
	if !ok {
		return nil, &ErrUnknownAssay{Name: name}
	}

	return m, nil
}

// ExprSet projects one assay into a standalone Set carrying the shared
// annotation. The projection runs the full constructor.
func (a *Assays) ExprSet(name string) (*Set, error) {
	m, err := a.Assay(name)
	if err != nil {
		return nil, err
	}

	return New(m, a.annotationOptions()...)
}

// Pheno returns the shared sample table, with Set's fallback policy.
func (a *Assays) Pheno() *frame.Frame {
	return a.set.Pheno()
}

// Features returns the shared feature table, with Set's fallback policy.
func (a *Assays) Features() *frame.Frame {
	return a.set.Features()
}

// Describe returns a copy of the shared study record.
func (a *Assays) Describe() Study {
	return a.set.Describe()
}

// NFeatures returns the number of features common to all assays.
func (a *Assays) NFeatures() int {
	return a.set.NFeatures()
}

// NSamples returns the number of samples common to all assays.
func (a *Assays) NSamples() int {
	return a.set.NSamples()
}

// Subset applies the same selection to every assay. Selectors resolve
// against the shared annotation, so covariate predicates work exactly as on
// a Set.
func (a *Assays) Subset(rows, cols Selector) (*Assays, error) {
	rowPositions, err := a.set.resolveRows(rows)
	if err != nil {
		return nil, translateError(err)
	}

	colPositions, err := a.set.resolveCols(cols)
	if err != nil {
		return nil, translateError(err)
	}

	if rowPositions != nil && len(rowPositions) == 0 {
		return nil, ErrEmptySelection
	}

	if colPositions != nil && len(colPositions) == 0 {
		return nil, ErrEmptySelection
	}

	ms := make(map[string]*matrix.Dense, len(a.matrices))

	for name, m := range a.matrices {
		sub, err := m.Slice(rowPositions, colPositions)
		if err != nil {
			return nil, translateError(err)
		}

		ms[name] = sub
	}

	subSet, err := a.set.Subset(rows, cols)
	if err != nil {
		return nil, err
	}

	return &Assays{
		names:    slices.Clone(a.names),
		matrices: ms,
		set:      subSet,
	}, nil
}

// annotationOptions rebuilds the option list that reproduces the shared
// annotation on a new Set.
func (a *Assays) annotationOptions() []Option {
	var optFns []Option

	if a.set.pheno != nil {
		optFns = append(optFns, WithPheno(a.set.pheno))
	}

	if a.set.features != nil {
		optFns = append(optFns, WithFeatures(a.set.features))
	}

	if a.set.study != nil {
		optFns = append(optFns, WithStudy(*a.set.study))
	}

	if a.set.strictLabels {
		optFns = append(optFns, WithStrictLabels())
	}

	optFns = append(optFns, WithMetricsCollector(a.set.metrics), WithLogger(a.set.logger))

	return optFns
}
