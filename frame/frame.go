package frame

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Column describes one table column: a machine name, an optional
// human-readable label, and the declared value type. A zero Type
// (FieldTypeAny) accepts any value kind.
type Column struct {
	Name  string    `json:"name"`
	Label string    `json:"label,omitempty"`
	Type  FieldType `json:"type,omitempty"`
}

// Frame is an immutable annotated table: ordered unique row identifiers,
// ordered typed columns, and one Value per cell.
type Frame struct {
	rows   []string
	rowIdx map[string]int
	cols   []Column
	colIdx map[string]int
	data   [][]Value
	index  *invertedIndex
}

// New creates a Frame from row identifiers, column descriptors, and
// row-major data. Inputs are deep copied.
//
// New fails with *ErrDuplicateRow or *ErrDuplicateColumn on repeated
// identifiers, *ErrShapeMismatch when the data does not match the declared
// dimensions, and *ErrValueType when a cell violates its column's declared
// type.
func New(rows []string, cols []Column, data [][]Value) (*Frame, error) {
	rowIdx := make(map[string]int, len(rows))
	for i, id := range rows {
		if first, ok := rowIdx[id]; ok {
			return nil, &ErrDuplicateRow{ID: id, First: first, Second: i}
		}
		rowIdx[id] = i
	}

	colIdx := make(map[string]int, len(cols))
	for j, c := range cols {
		if _, ok := colIdx[c.Name]; ok {
			return nil, &ErrDuplicateColumn{Name: c.Name}
		}
		colIdx[c.Name] = j
	}

	if len(data) != len(rows) {
		return nil, &ErrShapeMismatch{Expected: len(rows), Actual: len(data)}
	}
	for i := range data {
		if len(data[i]) != len(cols) {
			return nil, &ErrShapeMismatch{Row: rows[i], Expected: len(cols), Actual: len(data[i])}
		}
	}

	for i := range data {
		for j := range cols {
			if cols[j].Type == FieldTypeAny {
				continue
			}
			if !checkKind(data[i][j].Kind, cols[j].Type) {
				return nil, &ErrValueType{
					Row:    rows[i],
					Column: cols[j].Name,
					Kind:   data[i][j].Kind,
					Want:   cols[j].Type,
				}
			}
		}
	}

	f := &Frame{
		rows:   append([]string(nil), rows...),
		rowIdx: rowIdx,
		cols:   append([]Column(nil), cols...),
		colIdx: colIdx,
		data:   make([][]Value, len(data)),
	}
	for i := range data {
		rec := make([]Value, len(data[i]))
		for j := range data[i] {
			rec[j] = data[i][j].clone()
		}
		f.data[i] = rec
	}
	f.index = buildIndex(f.cols, f.data)

	return f, nil
}

// Empty returns a frame with no rows and no columns.
func Empty() *Frame {
	return &Frame{
		rowIdx: map[string]int{},
		colIdx: map[string]int{},
		index:  buildIndex(nil, nil),
	}
}

// FromRecords creates a Frame from map-shaped rows. When no columns are
// given they are derived from the union of document keys in sorted order.
// Keys absent from a document become Null cells.
func FromRecords(rows []string, docs []Document, cols ...Column) (*Frame, error) {
	if len(cols) == 0 {
		seen := make(map[string]struct{})
		for _, d := range docs {
			for k := range d {
				seen[k] = struct{}{}
			}
		}
		names := make([]string, 0, len(seen))
		for k := range seen {
			names = append(names, k)
		}
		sort.Strings(names)
		cols = make([]Column, len(names))
		for i, n := range names {
			cols[i] = Column{Name: n}
		}
	}

	data := make([][]Value, len(docs))
	for i, d := range docs {
		rec := make([]Value, len(cols))
		for j := range cols {
			if v, ok := d[cols[j].Name]; ok {
				rec[j] = v
			} else {
				rec[j] = Null()
			}
		}
		data[i] = rec
	}

	return New(rows, cols, data)
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int { return len(f.cols) }

// Rows returns a copy of the row identifiers in table order.
func (f *Frame) Rows() []string {
	return append([]string(nil), f.rows...)
}

// Columns returns a copy of the column descriptors in table order.
func (f *Frame) Columns() []Column {
	return append([]Column(nil), f.cols...)
}

// HasRow reports whether the identifier names a row.
func (f *Frame) HasRow(id string) bool {
	_, ok := f.rowIdx[id]
	return ok
}

// HasColumn reports whether the name refers to a column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.colIdx[name]
	return ok
}

// Label returns the human-readable label of a column, falling back to the
// column name when no label was declared.
func (f *Frame) Label(name string) (string, error) {
	j, ok := f.colIdx[name]
	if !ok {
		return "", &ErrUnknownColumn{Name: name}
	}
	if f.cols[j].Label == "" {
		return f.cols[j].Name, nil
	}
	return f.cols[j].Label, nil
}

// ValidateLabels returns *ErrMissingLabel for the first column declared
// without a label. Callers that want labels to be mandatory use this at
// binding time.
func (f *Frame) ValidateLabels() error {
	for _, c := range f.cols {
		if c.Label == "" {
			return &ErrMissingLabel{Column: c.Name}
		}
	}
	return nil
}

// Value returns the cell at (rowID, column).
func (f *Frame) Value(rowID, column string) (Value, error) {
	i, ok := f.rowIdx[rowID]
	if !ok {
		return Value{}, &ErrUnknownRow{ID: rowID}
	}
	j, ok := f.colIdx[column]
	if !ok {
		return Value{}, &ErrUnknownColumn{Name: column}
	}
	return f.data[i][j].clone(), nil
}

// ColumnValues returns one column in row order.
func (f *Frame) ColumnValues(column string) ([]Value, error) {
	j, ok := f.colIdx[column]
	if !ok {
		return nil, &ErrUnknownColumn{Name: column}
	}
	out := make([]Value, len(f.rows))
	for i := range f.rows {
		out[i] = f.data[i][j].clone()
	}
	return out, nil
}

// Row returns one row as a Document.
func (f *Frame) Row(id string) (Document, error) {
	i, ok := f.rowIdx[id]
	if !ok {
		return nil, &ErrUnknownRow{ID: id}
	}
	return f.docAt(i), nil
}

func (f *Frame) docAt(i int) Document {
	doc := make(Document, len(f.cols))
	for j := range f.cols {
		doc[f.cols[j].Name] = f.data[i][j].clone()
	}
	return doc
}

// Select returns a new Frame restricted to the given row identifiers, in
// exactly the requested order. Every identifier must name a row.
func (f *Frame) Select(ids []string) (*Frame, error) {
	positions := make([]int, len(ids))
	for i, id := range ids {
		p, ok := f.rowIdx[id]
		if !ok {
			return nil, &ErrUnknownRow{ID: id}
		}
		positions[i] = p
	}
	return f.selectPositions(positions)
}

// SelectAt returns a new Frame restricted to the given row positions, in
// exactly the requested order.
func (f *Frame) SelectAt(positions []int) (*Frame, error) {
	for _, p := range positions {
		if p < 0 || p >= len(f.rows) {
			return nil, &ErrPositionOutOfRange{Position: p, Size: len(f.rows)}
		}
	}
	return f.selectPositions(positions)
}

func (f *Frame) selectPositions(positions []int) (*Frame, error) {
	rows := make([]string, len(positions))
	data := make([][]Value, len(positions))
	for i, p := range positions {
		rows[i] = f.rows[p]
		data[i] = f.data[p]
	}
	// New re-validates, so duplicated positions surface as duplicate rows.
	return New(rows, f.cols, data)
}

// Match returns the positions of all rows satisfying the filter set, in
// ascending order. A nil or empty filter set matches every row. Equality
// and membership filters are answered from the inverted index; other
// operators scan.
func (f *Frame) Match(fs *FilterSet) *roaring.Bitmap {
	result := roaring.New()
	if fs == nil || len(fs.Filters) == 0 {
		result.AddRange(0, uint64(len(f.rows)))
		return result
	}

	if bm, ok := f.index.compile(fs); ok {
		return bm
	}

	// Columnar scan fallback for operators the index cannot answer.
	cols := make([]int, len(fs.Filters))
	for i := range fs.Filters {
		j, ok := f.colIdx[fs.Filters[i].Key]
		if !ok {
			// A missing column never matches.
			return result
		}
		cols[i] = j
	}

	for i := range f.rows {
		matched := true
		for k := range fs.Filters {
			if !fs.Filters[k].matchValue(f.data[i][cols[k]]) {
				matched = false
				break
			}
		}
		if matched {
			result.Add(uint32(i))
		}
	}
	return result
}

// Equal reports whether two frames hold the same rows, columns, and cell
// values in the same order.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.rows) != len(other.rows) || len(f.cols) != len(other.cols) {
		return false
	}
	for i := range f.rows {
		if f.rows[i] != other.rows[i] {
			return false
		}
	}
	for j := range f.cols {
		if f.cols[j] != other.cols[j] {
			return false
		}
	}
	for i := range f.data {
		for j := range f.data[i] {
			if f.data[i][j].Key() != other.data[i][j].Key() {
				return false
			}
		}
	}
	return true
}

// String returns a compact description of the frame.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%d rows, %d columns)", len(f.rows), len(f.cols))
}

// frameJSON is the persisted form of a Frame.
type frameJSON struct {
	Rows    []string  `json:"rows"`
	Columns []Column  `json:"columns"`
	Data    [][]Value `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{Rows: f.rows, Columns: f.cols, Data: f.data})
}

// UnmarshalJSON implements json.Unmarshaler. Decoded tables run through New,
// so duplicate identifiers and shape defects in persisted data surface as
// the same errors construction raises.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var aux frameJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	nf, err := New(aux.Rows, aux.Columns, aux.Data)
	if err != nil {
		return err
	}
	*f = *nf
	return nil
}
