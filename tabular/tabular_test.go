package tabular

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMatrix(t *testing.T) {
	t.Run("csv with header and row ids", func(t *testing.T) {
		in := strings.Join([]string{
			"id,GSM1,GSM2,GSM3",
			"FBgn1,1.5,2,3.25",
			"FBgn2,4,5.5,6",
		}, "\n")

		m, err := ReadMatrix(strings.NewReader(in))
		require.NoError(t, err)

		assert.Equal(t, []string{"FBgn1", "FBgn2"}, m.RowIDs())
		assert.Equal(t, []string{"GSM1", "GSM2", "GSM3"}, m.ColIDs())
		assert.Equal(t, 2.0, m.At(0, 1))
		assert.Equal(t, 6.0, m.At(1, 2))
	})

	t.Run("tab delimiter auto-detected", func(t *testing.T) {
		in := strings.Join([]string{
			"id\tGSM1\tGSM2",
			"FBgn1\t1\t2",
			"FBgn2\t3\t4",
			"FBgn3\t5\t6",
		}, "\n")

		m, err := ReadMatrix(strings.NewReader(in))
		require.NoError(t, err)

		assert.Equal(t, []string{"GSM1", "GSM2"}, m.ColIDs())
		assert.Equal(t, 3, m.Rows())
		assert.Equal(t, 4.0, m.At(1, 1))
	})

	t.Run("fixed delimiter", func(t *testing.T) {
		in := "id;GSM1\nFBgn1;7.5\n"

		m, err := ReadMatrix(strings.NewReader(in), WithDelimiter(';'))
		require.NoError(t, err)

		assert.Equal(t, 7.5, m.At(0, 0))
	})

	t.Run("bare numeric dump", func(t *testing.T) {
		in := "1,2\n3,4\n"

		m, err := ReadMatrix(strings.NewReader(in), func(o *Options) {
			o.NoHeader = true
			o.NoRowIDs = true
		})
		require.NoError(t, err)

		assert.False(t, m.HasRowIDs())
		assert.False(t, m.HasColIDs())
		assert.Equal(t, 3.0, m.At(1, 0))
	})

	t.Run("missing cells become NaN", func(t *testing.T) {
		in := "id,GSM1,GSM2\nFBgn1,NA,2\nFBgn2,3,\n"

		m, err := ReadMatrix(strings.NewReader(in))
		require.NoError(t, err)

		assert.True(t, math.IsNaN(m.At(0, 0)))
		assert.True(t, math.IsNaN(m.At(1, 1)))
		assert.Equal(t, 3.0, m.At(1, 0))
	})

	t.Run("parse error carries position", func(t *testing.T) {
		in := "id,GSM1,GSM2\nFBgn1,1,2\nFBgn2,oops,4\n"

		_, err := ReadMatrix(strings.NewReader(in))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 3, perr.Line)
		assert.Equal(t, "GSM1", perr.Column)
		assert.Equal(t, "oops", perr.Value)
	})

	t.Run("ragged row", func(t *testing.T) {
		in := "id,GSM1,GSM2\nFBgn1,1\n"

		_, err := ReadMatrix(strings.NewReader(in))

		var rerr *ErrRaggedRow
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 2, rerr.Line)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadMatrix(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyInput)

		_, err = ReadMatrix(strings.NewReader("id,GSM1\n"))
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestWriteMatrix(t *testing.T) {
	m, err := matrix.New(2, 2, []float64{1.5, math.NaN(), 3, 4}, func(o *matrix.Options) {
		o.RowIDs = []string{"FBgn1", "FBgn2"}
		o.ColIDs = []string{"GSM1", "GSM2"}
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))

	assert.Equal(t, ",GSM1,GSM2\nFBgn1,1.5,NA\nFBgn2,3,4\n", buf.String())

	got, err := ReadMatrix(&buf, WithDelimiter(','))
	require.NoError(t, err)

	assert.Equal(t, m.RowIDs(), got.RowIDs())
	assert.Equal(t, m.ColIDs(), got.ColIDs())
	assert.Equal(t, 1.5, got.At(0, 0))
	assert.True(t, math.IsNaN(got.At(0, 1)))
}

func TestReadFrame(t *testing.T) {
	t.Run("column types inferred", func(t *testing.T) {
		in := strings.Join([]string{
			"id,age,weight,treated,tissue",
			"GSM1,12,0.5,true,brain",
			"GSM2,15,NA,false,liver",
			"GSM3,NA,1.25,true,brain",
		}, "\n")

		f, err := ReadFrame(strings.NewReader(in))
		require.NoError(t, err)

		assert.Equal(t, []string{"GSM1", "GSM2", "GSM3"}, f.Rows())

		cols := f.Columns()
		require.Len(t, cols, 4)
		assert.Equal(t, frame.FieldTypeInt, cols[0].Type)
		assert.Equal(t, frame.FieldTypeFloat, cols[1].Type)
		assert.Equal(t, frame.FieldTypeBool, cols[2].Type)
		assert.Equal(t, frame.FieldTypeString, cols[3].Type)

		v, err := f.Value("GSM1", "age")
		require.NoError(t, err)
		assert.Equal(t, frame.Int(12), v)

		v, err = f.Value("GSM2", "weight")
		require.NoError(t, err)
		assert.True(t, v.IsNull())

		v, err = f.Value("GSM3", "tissue")
		require.NoError(t, err)
		assert.Equal(t, "brain", v.StringValue())
	})

	t.Run("schema overrides inference", func(t *testing.T) {
		in := "id,batch\nGSM1,1\nGSM2,2\n"

		f, err := ReadFrame(strings.NewReader(in), WithSchema(frame.Schema{
			"batch": frame.FieldTypeString,
		}))
		require.NoError(t, err)

		v, err := f.Value("GSM1", "batch")
		require.NoError(t, err)
		assert.Equal(t, frame.String("1"), v)
	})

	t.Run("schema parse error carries position", func(t *testing.T) {
		in := "id,age\nGSM1,12\nGSM2,old\n"

		_, err := ReadFrame(strings.NewReader(in), WithSchema(frame.Schema{
			"age": frame.FieldTypeInt,
		}))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 3, perr.Line)
		assert.Equal(t, "age", perr.Column)
	})

	t.Run("header only yields empty frame", func(t *testing.T) {
		f, err := ReadFrame(strings.NewReader("id,age\n"))
		require.NoError(t, err)

		assert.Equal(t, 0, f.Len())
		assert.Equal(t, 1, f.NumColumns())
	})
}

func TestWriteFrame_RoundTrip(t *testing.T) {
	f, err := frame.New(
		[]string{"GSM1", "GSM2"},
		[]frame.Column{
			{Name: "age", Type: frame.FieldTypeInt},
			{Name: "weight", Type: frame.FieldTypeFloat},
			{Name: "treated", Type: frame.FieldTypeBool},
			{Name: "tissue", Type: frame.FieldTypeString},
		},
		[][]frame.Value{
			{frame.Int(12), frame.Float(0.5), frame.Bool(true), frame.String("brain")},
			{frame.Null(), frame.Float(1.25), frame.Bool(false), frame.String("liver")},
		},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, WithDelimiter('\t')))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)

	assert.True(t, f.Equal(got))
}
