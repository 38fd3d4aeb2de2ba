package exprset

import (
	"slices"

	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

type selectorKind int

const (
	selectAll selectorKind = iota
	selectPositions
	selectIDs
	selectWhere
)

// Selector chooses features or samples for Subset. Build one with All,
// Positions, IDs or Where. The zero value selects everything.
type Selector struct {
	kind      selectorKind
	positions []int
	ids       []string
	filters   *frame.FilterSet
}

// All selects the full axis in its current order.
func All() Selector {
	return Selector{kind: selectAll}
}

// Positions selects by zero-based position, in the given order. An empty
// position list is an empty selection, not a full one.
func Positions(positions ...int) Selector {
	cloned := slices.Clone(positions)
	if cloned == nil {
		cloned = []int{}
	}

	return Selector{kind: selectPositions, positions: cloned}
}

// IDs selects by identifier, in the given order. The axis must have
// identifiers bound.
func IDs(ids ...string) Selector {
	return Selector{kind: selectIDs, ids: slices.Clone(ids)}
}

// Where selects the samples whose covariate records match all given
// filters, in matrix order. It is valid on the sample axis only.
//
// Example:
//
//	under30, err := es.Subset(exprset.All(), exprset.Where(frame.Lt("age", frame.Int(30))))
func Where(filters ...frame.Filter) Selector {
	return Selector{kind: selectWhere, filters: frame.NewFilterSet(filters...)}
}

// resolveRows resolves a row selector to concrete matrix row positions.
func (s *Set) resolveRows(sel Selector) ([]int, error) {
	switch sel.kind {
	case selectAll:
		return nil, nil
	case selectPositions:
		return sel.positions, nil
	case selectIDs:
		if !s.exprs.HasRowIDs() {
			return nil, ErrMissingRowIDs
		}
		return resolveIDs(sel.ids, s.exprs.RowIndex, matrix.AxisRow)
	case selectWhere:
		return nil, ErrPredicateOnRows
	default:
		return nil, nil
	}
}

// resolveCols resolves a column selector to concrete matrix column positions.
func (s *Set) resolveCols(sel Selector) ([]int, error) {
	switch sel.kind {
	case selectAll:
		return nil, nil
	case selectPositions:
		return sel.positions, nil
	case selectIDs:
		if !s.exprs.HasColIDs() {
			return nil, ErrMissingColumnIDs
		}
		return resolveIDs(sel.ids, s.exprs.ColIndex, matrix.AxisCol)
	case selectWhere:
		return s.resolveWhere(sel.filters)
	default:
		return nil, nil
	}
}

func resolveIDs(ids []string, index func(id string) (int, bool), axis matrix.Axis) ([]int, error) {
	positions := make([]int, len(ids))

	for k, id := range ids {
		i, ok := index(id)
		if !ok {
			return nil, &matrix.ErrUnknownID{Axis: axis, ID: id}
		}

		positions[k] = i
	}

	return positions, nil
}

// resolveWhere evaluates covariate filters against the sample table and
// returns matching column positions in matrix order.
func (s *Set) resolveWhere(filters *frame.FilterSet) ([]int, error) {
	if s.pheno == nil {
		// Without covariates nothing can match a predicate.
		return nil, ErrEmptySelection
	}

	// Bound tables are kept in matrix order, so table positions are matrix
	// column positions.
	matched := s.pheno.Match(filters)
	if matched.IsEmpty() {
		return nil, ErrEmptySelection
	}

	cols := matched.ToArray()
	positions := make([]int, len(cols))
	for k, c := range cols {
		positions[k] = int(c)
	}

	return positions, nil
}
