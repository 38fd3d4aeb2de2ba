package dataset

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/exprset/matrix"
)

// The matrix section is a fixed little-endian binary layout:
//
//	[0:4]   rows uint32
//	[4:8]   cols uint32
//	[8]     flags (bit 0: row identifiers, bit 1: column identifiers)
//	[9:12]  reserved
//	row identifier table, if present: rows x {uint16 length, bytes}
//	column identifier table, if present: cols x {uint16 length, bytes}
//	payload: rows*cols float64, row-major
const (
	matrixHeaderSize = 12

	matrixFlagRowIDs = 1 << 0
	matrixFlagColIDs = 1 << 1
)

func encodeMatrix(m *matrix.Dense) ([]byte, error) {
	rows, cols := m.Dims()

	if uint64(rows) > math.MaxUint32 || uint64(cols) > math.MaxUint32 {
		return nil, fmt.Errorf("dataset: matrix too large: %dx%d", rows, cols)
	}

	var flags byte
	if m.HasRowIDs() {
		flags |= matrixFlagRowIDs
	}
	if m.HasColIDs() {
		flags |= matrixFlagColIDs
	}

	buf := make([]byte, matrixHeaderSize, matrixHeaderSize+rows*cols*8)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(rows))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cols))
	buf[8] = flags

	var err error

	if m.HasRowIDs() {
		if buf, err = appendIDTable(buf, m.RowIDs()); err != nil {
			return nil, err
		}
	}

	if m.HasColIDs() {
		if buf, err = appendIDTable(buf, m.ColIDs()); err != nil {
			return nil, err
		}
	}

	for _, v := range m.Values() {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf, nil
}

func appendIDTable(buf []byte, ids []string) ([]byte, error) {
	for _, id := range ids {
		if len(id) > math.MaxUint16 {
			return nil, fmt.Errorf("dataset: identifier too long: %d bytes", len(id))
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(id)))
		buf = append(buf, id...)
	}
	return buf, nil
}

func decodeMatrix(data []byte) (*matrix.Dense, error) {
	if len(data) < matrixHeaderSize {
		return nil, fmt.Errorf("%w: matrix header", ErrTruncated)
	}

	rows64 := int64(binary.LittleEndian.Uint32(data[0:4]))
	cols64 := int64(binary.LittleEndian.Uint32(data[4:8]))
	flags := data[8]

	// Reject dimensions the payload cannot possibly back before any
	// allocation sized from them.
	if rows64 > 0 && cols64 > int64(len(data))/rows64 {
		return nil, fmt.Errorf("%w: matrix payload", ErrTruncated)
	}

	rows := int(rows64)
	cols := int(cols64)

	off := matrixHeaderSize

	var rowIDs, colIDs []string
	var err error

	if flags&matrixFlagRowIDs != 0 {
		rowIDs, off, err = readIDTable(data, off, rows)
		if err != nil {
			return nil, err
		}
	}

	if flags&matrixFlagColIDs != 0 {
		colIDs, off, err = readIDTable(data, off, cols)
		if err != nil {
			return nil, err
		}
	}

	if int64(len(data)-off) < int64(rows)*int64(cols)*8 {
		return nil, fmt.Errorf("%w: matrix payload", ErrTruncated)
	}

	values := make([]float64, rows*cols)
	for k := range values {
		values[k] = math.Float64frombits(binary.LittleEndian.Uint64(data[off+k*8:]))
	}

	return matrix.New(rows, cols, values, func(o *matrix.Options) {
		o.RowIDs = rowIDs
		o.ColIDs = colIDs
	})
}

func readIDTable(data []byte, off, count int) ([]string, int, error) {
	ids := make([]string, count)

	for i := range ids {
		if len(data)-off < 2 {
			return nil, 0, fmt.Errorf("%w: identifier table", ErrTruncated)
		}
		n := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2

		if len(data)-off < n {
			return nil, 0, fmt.Errorf("%w: identifier table", ErrTruncated)
		}
		ids[i] = string(data[off : off+n])
		off += n
	}

	return ids, off, nil
}
