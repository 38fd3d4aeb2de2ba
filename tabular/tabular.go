package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/csimplestring/go-csv/detector"
	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

// Options represents the options for reading and writing delimited text.
type Options struct {
	// Delimiter is the field separator. Zero means auto-detect on read
	// and comma on write.
	Delimiter rune

	// NoHeader skips the column-identifier header row when reading a
	// matrix. Ignored by ReadFrame, which always needs column names.
	NoHeader bool

	// NoRowIDs treats the first field of each row as data instead of a
	// row identifier when reading a matrix.
	NoRowIDs bool

	// Schema declares column types for ReadFrame, bypassing inference
	// for the columns it names.
	Schema frame.Schema

	// NAValues are the cell strings treated as missing. Missing matrix
	// cells become NaN, missing frame cells become Null.
	NAValues []string
}

// DefaultOptions are the defaults for delimited text handling.
var DefaultOptions = Options{
	NAValues: []string{"", "NA", "NaN", "null"},
}

// WithDelimiter fixes the field separator instead of auto-detecting it.
func WithDelimiter(d rune) func(o *Options) {
	return func(o *Options) {
		o.Delimiter = d
	}
}

// WithSchema declares column types for ReadFrame.
func WithSchema(s frame.Schema) func(o *Options) {
	return func(o *Options) {
		o.Schema = s
	}
}

// ReadMatrix reads a numeric matrix from delimited text. The header row
// carries column identifiers and the first field of each data row carries
// the row identifier; the header's corner field is ignored. Missing cells
// become NaN.
func ReadMatrix(r io.Reader, optFns ...func(o *Options)) (*matrix.Dense, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	records, err := readRecords(r, &opts)
	if err != nil {
		return nil, err
	}

	var colIDs []string

	firstLine := 1
	if !opts.NoHeader {
		header := records[0]
		if !opts.NoRowIDs {
			header = header[1:]
		}
		colIDs = append([]string(nil), header...)
		records = records[1:]
		firstLine = 2
	}

	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	width := len(records[0])
	cols := width
	if !opts.NoRowIDs {
		cols--
	}
	if colIDs != nil && cols != len(colIDs) {
		return nil, &ErrRaggedRow{Line: firstLine, Expected: len(colIDs) + 1, Actual: width}
	}

	rowIDs := make([]string, 0, len(records))
	values := make([]float64, 0, len(records)*cols)

	na := naSet(opts.NAValues)

	for i, rec := range records {
		line := firstLine + i
		if len(rec) != width {
			return nil, &ErrRaggedRow{Line: line, Expected: width, Actual: len(rec)}
		}

		cells := rec
		if !opts.NoRowIDs {
			rowIDs = append(rowIDs, rec[0])
			cells = rec[1:]
		}

		for j, cell := range cells {
			if _, ok := na[cell]; ok {
				values = append(values, math.NaN())
				continue
			}

			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &ParseError{Line: line, Column: columnName(colIDs, j), Value: cell, Err: err}
			}
			values = append(values, v)
		}
	}

	return matrix.New(len(records), cols, values, func(o *matrix.Options) {
		if !opts.NoRowIDs {
			o.RowIDs = rowIDs
		}
		o.ColIDs = colIDs
	})
}

// ReadFrame reads an annotated table from delimited text. The header row
// names the columns and the first field of each data row is the row
// identifier. Column types follow the schema when given, otherwise each
// column is inferred as int, float, or bool, falling back to string.
func ReadFrame(r io.Reader, optFns ...func(o *Options)) (*frame.Frame, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	records, err := readRecords(r, &opts)
	if err != nil {
		return nil, err
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("tabular: header needs a row-identifier field and at least one column")
	}

	names := header[1:]
	records = records[1:]

	rowIDs := make([]string, len(records))
	cells := make([][]string, len(records))

	for i, rec := range records {
		if len(rec) != len(names)+1 {
			return nil, &ErrRaggedRow{Line: i + 2, Expected: len(names) + 1, Actual: len(rec)}
		}
		rowIDs[i] = rec[0]
		cells[i] = rec[1:]
	}

	na := naSet(opts.NAValues)

	cols := make([]frame.Column, len(names))
	data := make([][]frame.Value, len(records))
	for i := range data {
		data[i] = make([]frame.Value, len(names))
	}

	for j, name := range names {
		ft, declared := opts.Schema[name]
		if !declared {
			ft = inferType(cells, j, na)
		}
		cols[j] = frame.Column{Name: name, Type: ft}

		for i := range cells {
			cell := cells[i][j]
			if _, ok := na[cell]; ok {
				data[i][j] = frame.Null()
				continue
			}

			v, err := parseCell(cell, ft)
			if err != nil {
				return nil, &ParseError{Line: i + 2, Column: name, Value: cell, Err: err}
			}
			data[i][j] = v
		}
	}

	return frame.New(rowIDs, cols, data)
}

// WriteMatrix writes a matrix as delimited text, the inverse of
// ReadMatrix. NaN cells are written as "NA".
func WriteMatrix(w io.Writer, d *matrix.Dense, optFns ...func(o *Options)) error {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	cw := newWriter(w, &opts)

	if d.HasColIDs() {
		if err := cw.Write(append([]string{""}, d.ColIDs()...)); err != nil {
			return err
		}
	}

	rows, cols := d.Dims()
	rec := make([]string, 0, cols+1)

	for i := 0; i < rows; i++ {
		rec = rec[:0]
		if d.HasRowIDs() {
			rec = append(rec, d.RowIDs()[i])
		}
		for j := 0; j < cols; j++ {
			rec = append(rec, formatFloat(d.At(i, j)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFrame writes a frame as delimited text, the inverse of ReadFrame.
// Null cells are written as "NA".
func WriteFrame(w io.Writer, f *frame.Frame, optFns ...func(o *Options)) error {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	cw := newWriter(w, &opts)

	cols := f.Columns()
	header := make([]string, 0, len(cols)+1)
	header = append(header, "")
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, 0, len(cols)+1)
	for _, id := range f.Rows() {
		rec = rec[:0]
		rec = append(rec, id)
		for _, c := range cols {
			v, err := f.Value(id, c.Name)
			if err != nil {
				return err
			}
			rec = append(rec, formatCell(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// readRecords buffers the input, auto-detects the delimiter when none is
// fixed, and returns all records. Ragged rows are checked by the callers
// so line numbers can account for headers.
func readRecords(r io.Reader, opts *Options) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tabular: read input: %w", err)
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = detectDelimiter(bytes.NewReader(data))
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: parse input: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	return records, nil
}

// detectDelimiter returns the most likely delimiter rune for a CSV-like
// input, defaulting to comma.
func detectDelimiter(r io.Reader) rune {
	delimiters := detector.New().DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

func newWriter(w io.Writer, opts *Options) *csv.Writer {
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}
	return cw
}

func naSet(values []string) map[string]struct{} {
	na := make(map[string]struct{}, len(values))
	for _, v := range values {
		na[v] = struct{}{}
	}
	return na
}

func columnName(colIDs []string, j int) string {
	if j < len(colIDs) {
		return colIDs[j]
	}
	return strconv.Itoa(j + 1)
}

// inferType picks the narrowest type that parses every non-missing cell
// of a column: int, then float, then bool, falling back to string.
func inferType(cells [][]string, j int, na map[string]struct{}) frame.FieldType {
	isInt, isFloat, isBool := true, true, true
	seen := false

	for i := range cells {
		cell := cells[i][j]
		if _, ok := na[cell]; ok {
			continue
		}
		seen = true

		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, err := strconv.ParseBool(cell); err != nil {
				isBool = false
			}
		}

		if !isInt && !isFloat && !isBool {
			return frame.FieldTypeString
		}
	}

	switch {
	case !seen:
		return frame.FieldTypeString
	case isInt:
		return frame.FieldTypeInt
	case isFloat:
		return frame.FieldTypeFloat
	case isBool:
		return frame.FieldTypeBool
	default:
		return frame.FieldTypeString
	}
}

func parseCell(cell string, ft frame.FieldType) (frame.Value, error) {
	switch ft {
	case frame.FieldTypeInt:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Int(v), nil
	case frame.FieldTypeFloat:
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Float(v), nil
	case frame.FieldTypeBool:
		v, err := strconv.ParseBool(cell)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Bool(v), nil
	default:
		return frame.String(cell), nil
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatCell(v frame.Value) string {
	switch v.Kind {
	case frame.KindNull:
		return "NA"
	case frame.KindInt:
		return strconv.FormatInt(v.I64, 10)
	case frame.KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case frame.KindBool:
		return strconv.FormatBool(v.B)
	case frame.KindString:
		return v.StringValue()
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}
