package matrix

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Options represents the options for constructing a Dense.
type Options struct {
	// RowIDs binds one identifier per row. Optional; when set the length
	// must equal the row count and the identifiers must be unique.
	RowIDs []string

	// ColIDs binds one identifier per column. Optional; when set the length
	// must equal the column count and the identifiers must be unique.
	ColIDs []string
}

// Dense is a dense float64 matrix with optional row and column
// identifiers. Values and identifiers are copied at construction and no
// mutating methods are exposed, so a Dense never changes after New
// returns and is safe for concurrent readers.
type Dense struct {
	m      *mat.Dense
	rows   int
	cols   int
	rowIDs []string
	rowIdx map[string]int
	colIDs []string
	colIdx map[string]int
}

// New creates a new Dense with the given dimensions and row-major values.
// A nil value slice yields a zeroed matrix; otherwise the slice length
// must equal rows*cols.
func New(rows, cols int, values []float64, optFns ...func(o *Options)) (*Dense, error) {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	if rows < 1 || cols < 1 {
		return nil, &ErrZeroDimension{Rows: rows, Cols: cols}
	}

	if values != nil && len(values) != rows*cols {
		return nil, &ErrShape{Rows: rows, Cols: cols, Values: len(values)}
	}

	data := make([]float64, rows*cols)
	copy(data, values)

	d := &Dense{
		m:    mat.NewDense(rows, cols, data),
		rows: rows,
		cols: cols,
	}

	if opts.RowIDs != nil {
		idx, err := indexIDs(AxisRow, opts.RowIDs, rows)
		if err != nil {
			return nil, err
		}

		d.rowIDs = slices.Clone(opts.RowIDs)
		d.rowIdx = idx
	}

	if opts.ColIDs != nil {
		idx, err := indexIDs(AxisCol, opts.ColIDs, cols)
		if err != nil {
			return nil, err
		}

		d.colIDs = slices.Clone(opts.ColIDs)
		d.colIdx = idx
	}

	return d, nil
}

// FromMat copies an existing gonum matrix into a Dense.
func FromMat(src mat.Matrix, optFns ...func(o *Options)) (*Dense, error) {
	rows, cols := src.Dims()
	if rows < 1 || cols < 1 {
		return nil, &ErrZeroDimension{Rows: rows, Cols: cols}
	}

	values := make([]float64, 0, rows*cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, src.At(i, j))
		}
	}

	return New(rows, cols, values, optFns...)
}

// indexIDs validates an identifier list against an axis length and builds
// the identifier to position index.
func indexIDs(axis Axis, ids []string, want int) (map[string]int, error) {
	if len(ids) != want {
		return nil, &ErrIDCount{Axis: axis, Want: want, Got: len(ids)}
	}

	idx := make(map[string]int, len(ids))

	for i, id := range ids {
		if first, ok := idx[id]; ok {
			return nil, &ErrDuplicateID{Axis: axis, ID: id, First: first, Second: i}
		}

		idx[id] = i
	}

	return idx, nil
}

// Dims returns the number of rows and columns.
func (d *Dense) Dims() (rows, cols int) {
	return d.rows, d.cols
}

// Rows returns the number of rows.
func (d *Dense) Rows() int {
	return d.rows
}

// Cols returns the number of columns.
func (d *Dense) Cols() int {
	return d.cols
}

// At returns the value at row i, column j. It panics if the position is
// out of range, matching gonum semantics.
func (d *Dense) At(i, j int) float64 {
	return d.m.At(i, j)
}

// Row returns a copy of row i.
func (d *Dense) Row(i int) []float64 {
	return mat.Row(nil, i, d.m)
}

// Col returns a copy of column j.
func (d *Dense) Col(j int) []float64 {
	return mat.Col(nil, j, d.m)
}

// RowByID returns a copy of the row bound to the given identifier.
func (d *Dense) RowByID(id string) ([]float64, error) {
	if d.rowIdx == nil {
		return nil, &ErrNoIDs{Axis: AxisRow}
	}

	i, ok := d.rowIdx[id]
	if !ok {
		return nil, &ErrUnknownID{Axis: AxisRow, ID: id}
	}

	return d.Row(i), nil
}

// ColByID returns a copy of the column bound to the given identifier.
func (d *Dense) ColByID(id string) ([]float64, error) {
	if d.colIdx == nil {
		return nil, &ErrNoIDs{Axis: AxisCol}
	}

	j, ok := d.colIdx[id]
	if !ok {
		return nil, &ErrUnknownID{Axis: AxisCol, ID: id}
	}

	return d.Col(j), nil
}

// HasRowIDs reports whether row identifiers are bound.
func (d *Dense) HasRowIDs() bool {
	return d.rowIDs != nil
}

// HasColIDs reports whether column identifiers are bound.
func (d *Dense) HasColIDs() bool {
	return d.colIDs != nil
}

// RowIDs returns a copy of the bound row identifiers, or nil when none
// are bound.
func (d *Dense) RowIDs() []string {
	return slices.Clone(d.rowIDs)
}

// ColIDs returns a copy of the bound column identifiers, or nil when none
// are bound.
func (d *Dense) ColIDs() []string {
	return slices.Clone(d.colIDs)
}

// RowIndex returns the position of the given row identifier.
func (d *Dense) RowIndex(id string) (int, bool) {
	i, ok := d.rowIdx[id]
	return i, ok
}

// ColIndex returns the position of the given column identifier.
func (d *Dense) ColIndex(id string) (int, bool) {
	j, ok := d.colIdx[id]
	return j, ok
}

// Mat returns the underlying matrix for use with gonum operations. The
// returned value must be treated as read-only.
func (d *Dense) Mat() mat.Matrix {
	return d.m
}

// Values returns a copy of all values in row-major order.
func (d *Dense) Values() []float64 {
	values := make([]float64, 0, d.rows*d.cols)

	for i := 0; i < d.rows; i++ {
		values = append(values, d.m.RawRowView(i)...)
	}

	return values
}

// Slice returns a new Dense holding the given rows and columns in the
// requested order. Bound identifiers follow their rows and columns. A nil
// position slice selects the full axis; an empty one fails, since a Dense
// cannot be empty.
func (d *Dense) Slice(rowIdx, colIdx []int) (*Dense, error) {
	if rowIdx == nil {
		rowIdx = iotaPositions(d.rows)
	}

	if colIdx == nil {
		colIdx = iotaPositions(d.cols)
	}

	for _, i := range rowIdx {
		if i < 0 || i >= d.rows {
			return nil, &ErrPositionOutOfRange{Axis: AxisRow, Position: i, Size: d.rows}
		}
	}

	for _, j := range colIdx {
		if j < 0 || j >= d.cols {
			return nil, &ErrPositionOutOfRange{Axis: AxisCol, Position: j, Size: d.cols}
		}
	}

	values := make([]float64, 0, len(rowIdx)*len(colIdx))

	for _, i := range rowIdx {
		for _, j := range colIdx {
			values = append(values, d.m.At(i, j))
		}
	}

	var optFns []func(o *Options)

	if d.rowIDs != nil {
		ids := make([]string, len(rowIdx))
		for k, i := range rowIdx {
			ids[k] = d.rowIDs[i]
		}

		optFns = append(optFns, func(o *Options) { o.RowIDs = ids })
	}

	if d.colIDs != nil {
		ids := make([]string, len(colIdx))
		for k, j := range colIdx {
			ids[k] = d.colIDs[j]
		}

		optFns = append(optFns, func(o *Options) { o.ColIDs = ids })
	}

	// Re-validation through New keeps the identifier invariants; selecting
	// the same row twice on an identified axis fails as a duplicate.
	return New(len(rowIdx), len(colIdx), values, optFns...)
}

// Equal reports whether two matrices hold the same dimensions, values and
// identifier bindings.
func (d *Dense) Equal(other *Dense) bool {
	if other == nil {
		return false
	}

	if d.rows != other.rows || d.cols != other.cols {
		return false
	}

	if !mat.Equal(d.m, other.m) {
		return false
	}

	return slices.Equal(d.rowIDs, other.rowIDs) && slices.Equal(d.colIDs, other.colIDs)
}

// String returns a short description of the matrix.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense(%dx%d)", d.rows, d.cols)
}

func iotaPositions(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}

	return positions
}
