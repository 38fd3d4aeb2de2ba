package exprset

import (
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

// Set is an annotated expression-matrix container. It binds a features x
// samples matrix to an optional sample table, an optional feature table and
// an optional study record, and guarantees that the bound tables stay
// aligned with the matrix axes.
//
// A Set is immutable after construction. Subset returns a new re-validated
// Set instead of editing in place, so a Set can be shared between
// goroutines without locking.
type Set struct {
	exprs        *matrix.Dense
	pheno        *frame.Frame // nil when no sample table is bound
	features     *frame.Frame // nil when no feature table is bound
	study        *Study       // nil when no study record is bound
	strictLabels bool
	metrics      MetricsCollector
	logger       *Logger
}

// New creates a Set from an expression matrix and validates every binding:
// the matrix must be non-nil and non-empty, a sample table requires matrix
// column identifiers and must cover exactly that identifier set, and a
// feature table requires and must cover the matrix row identifiers. Bound
// tables are reordered to matrix order, which is authoritative.
func New(m *matrix.Dense, optFns ...Option) (*Set, error) {
	start := time.Now()
	opts := applyOptions(optFns)

	s, err := construct(m, opts)
	err = translateError(err)

	duration := time.Since(start)
	opts.metricsCollector.RecordConstruct(duration, err)

	var features, samples int
	if m != nil {
		features, samples = m.Dims()
	}
	opts.logger.LogConstruct(features, samples, err)

	if err != nil {
		return nil, err
	}

	return s, nil
}

// construct runs the full validation sequence. Subset goes through here as
// well, so a subset can never produce an inconsistent container.
func construct(m *matrix.Dense, opts options) (*Set, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}

	if m.Rows() < 1 || m.Cols() < 1 {
		return nil, ErrEmptyMatrix
	}

	s := &Set{
		exprs:        m,
		strictLabels: opts.strictLabels,
		metrics:      opts.metricsCollector,
		logger:       opts.logger,
	}

	if opts.pheno != nil {
		if !m.HasColIDs() {
			return nil, ErrMissingColumnIDs
		}

		aligned, err := alignFrame(AxisSamples, m.ColIDs(), opts.pheno)
		if err != nil {
			return nil, err
		}

		s.pheno = aligned
	}

	if opts.features != nil {
		if !m.HasRowIDs() {
			return nil, ErrMissingRowIDs
		}

		aligned, err := alignFrame(AxisFeatures, m.RowIDs(), opts.features)
		if err != nil {
			return nil, err
		}

		s.features = aligned
	}

	if opts.strictLabels {
		if s.pheno != nil {
			if err := s.pheno.ValidateLabels(); err != nil {
				return nil, err
			}
		}

		if s.features != nil {
			if err := s.features.ValidateLabels(); err != nil {
				return nil, err
			}
		}
	}

	if opts.study != nil {
		st := opts.study.clone()
		s.study = &st
	}

	return s, nil
}

// alignFrame checks that the table rows equal the matrix axis identifiers
// as a set and reorders the table to matrix order.
func alignFrame(axis Axis, matrixIDs []string, f *frame.Frame) (*frame.Frame, error) {
	missing, extra := diffIDs(matrixIDs, f.Rows())

	if len(missing) > 0 || len(extra) > 0 {
		cause := ErrSampleMismatch
		if axis == AxisFeatures {
			cause = ErrFeatureMismatch
		}

		return nil, &ErrAlignment{Axis: axis, Missing: missing, Extra: extra, cause: cause}
	}

	return f.Select(matrixIDs)
}

// diffIDs returns the sorted symmetric difference between the matrix axis
// identifiers and the table row identifiers.
func diffIDs(matrixIDs, tableIDs []string) (missing, extra []string) {
	inMatrix := make(map[string]struct{}, len(matrixIDs))
	for _, id := range matrixIDs {
		inMatrix[id] = struct{}{}
	}

	inTable := make(map[string]struct{}, len(tableIDs))
	for _, id := range tableIDs {
		inTable[id] = struct{}{}
	}

	for _, id := range matrixIDs {
		if _, ok := inTable[id]; !ok {
			missing = append(missing, id)
		}
	}

	for _, id := range tableIDs {
		if _, ok := inMatrix[id]; !ok {
			extra = append(extra, id)
		}
	}

	slices.Sort(missing)
	slices.Sort(extra)

	return missing, extra
}

// Exprs returns the expression matrix.
func (s *Set) Exprs() *matrix.Dense {
	return s.exprs
}

// Pheno returns the bound sample table. When no table was supplied it
// returns a table with one row per sample and zero covariate columns,
// never nil and never a failure.
func (s *Set) Pheno() *frame.Frame {
	if s.pheno != nil {
		return s.pheno
	}

	return placeholderFrame(s.exprs.ColIDs())
}

// Features returns the bound feature table, with the same fallback policy
// as Pheno.
func (s *Set) Features() *frame.Frame {
	if s.features != nil {
		return s.features
	}

	return placeholderFrame(s.exprs.RowIDs())
}

// placeholderFrame builds a zero-column table keyed by the given
// identifiers, or an empty table when the axis has none.
func placeholderFrame(ids []string) *frame.Frame {
	if ids == nil {
		return frame.Empty()
	}

	f, err := frame.New(ids, nil, make([][]frame.Value, len(ids)))
	if err != nil {
		// Matrix identifiers are unique by construction.
		return frame.Empty()
	}

	return f
}

// Describe returns a copy of the bound study record, or a zero record when
// none was supplied. Never a failure.
func (s *Set) Describe() Study {
	if s.study == nil {
		return Study{}
	}

	return s.study.clone()
}

// HasPheno reports whether a sample table was bound.
func (s *Set) HasPheno() bool {
	return s.pheno != nil
}

// HasFeatures reports whether a feature table was bound.
func (s *Set) HasFeatures() bool {
	return s.features != nil
}

// HasStudy reports whether a study record was bound.
func (s *Set) HasStudy() bool {
	return s.study != nil
}

// NFeatures returns the number of features (matrix rows).
func (s *Set) NFeatures() int {
	return s.exprs.Rows()
}

// NSamples returns the number of samples (matrix columns).
func (s *Set) NSamples() int {
	return s.exprs.Cols()
}

// FeatureIDs returns the matrix row identifiers, or nil when none are bound.
func (s *Set) FeatureIDs() []string {
	return s.exprs.RowIDs()
}

// SampleIDs returns the matrix column identifiers, or nil when none are
// bound.
func (s *Set) SampleIDs() []string {
	return s.exprs.ColIDs()
}

// Subset returns a new Set restricted to the selected features and samples,
// in selector order. Both tables are selected with the same resolved
// identifier lists as the matrix, and the result is assembled through the
// full constructor so every invariant is re-verified.
//
// Example:
//
//	under30, err := es.Subset(exprset.All(), exprset.Where(frame.Lt("age", frame.Int(30))))
func (s *Set) Subset(rows, cols Selector) (*Set, error) {
	start := time.Now()

	sub, err := s.subset(rows, cols)
	err = translateError(err)

	duration := time.Since(start)
	s.metrics.RecordSubset(duration, err)

	if err != nil {
		s.logger.LogSubset(0, 0, err)
		return nil, err
	}

	s.logger.LogSubset(sub.NFeatures(), sub.NSamples(), nil)

	return sub, nil
}

func (s *Set) subset(rows, cols Selector) (*Set, error) {
	rowPositions, err := s.resolveRows(rows)
	if err != nil {
		return nil, err
	}

	colPositions, err := s.resolveCols(cols)
	if err != nil {
		return nil, err
	}

	if rowPositions != nil && len(rowPositions) == 0 {
		return nil, ErrEmptySelection
	}

	if colPositions != nil && len(colPositions) == 0 {
		return nil, ErrEmptySelection
	}

	// Slice the matrix first; it validates positions and duplicate
	// identifier selections.
	m, err := s.exprs.Slice(rowPositions, colPositions)
	if err != nil {
		return nil, err
	}

	opts := options{
		study:            s.study,
		strictLabels:     s.strictLabels,
		metricsCollector: s.metrics,
		logger:           s.logger,
	}

	if s.pheno != nil {
		// A bound sample table implies column identifiers.
		ph, err := s.pheno.Select(subsetIDs(s.exprs.ColIDs(), colPositions))
		if err != nil {
			return nil, err
		}

		opts.pheno = ph
	}

	if s.features != nil {
		ff, err := s.features.Select(subsetIDs(s.exprs.RowIDs(), rowPositions))
		if err != nil {
			return nil, err
		}

		opts.features = ff
	}

	return construct(m, opts)
}

// subsetIDs maps resolved positions to the identifiers they select. A nil
// position list selects the full axis.
func subsetIDs(ids []string, positions []int) []string {
	if positions == nil {
		return ids
	}

	out := make([]string, len(positions))
	for k, p := range positions {
		out[k] = ids[p]
	}

	return out
}

// Equal reports whether two containers hold the same matrix, tables and
// study record.
func (s *Set) Equal(other *Set) bool {
	if other == nil {
		return false
	}

	if !s.exprs.Equal(other.exprs) {
		return false
	}

	if !s.Pheno().Equal(other.Pheno()) {
		return false
	}

	if !s.Features().Equal(other.Features()) {
		return false
	}

	return s.Describe().Equal(other.Describe())
}

// String returns a short description of the container.
func (s *Set) String() string {
	return fmt.Sprintf("Set(%d features x %d samples)", s.NFeatures(), s.NSamples())
}
