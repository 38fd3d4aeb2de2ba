package matrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testMatrix(t *testing.T) *Dense {
	t.Helper()

	d, err := New(3, 2, []float64{
		1.5, 2.5,
		3.5, 4.5,
		5.5, 6.5,
	}, func(o *Options) {
		o.RowIDs = []string{"FT1", "FT2", "FT3"}
		o.ColIDs = []string{"S1", "S2"}
	})
	require.NoError(t, err)

	return d
}

func TestNew_Validation(t *testing.T) {
	t.Run("ZeroDimension", func(t *testing.T) {
		_, err := New(0, 4, nil)
		require.Error(t, err)

		var zeroErr *ErrZeroDimension
		require.ErrorAs(t, err, &zeroErr)
		assert.Equal(t, 0, zeroErr.Rows)
		assert.Equal(t, 4, zeroErr.Cols)
	})

	t.Run("ValueCount", func(t *testing.T) {
		_, err := New(2, 2, []float64{1, 2, 3})
		require.Error(t, err)

		var shapeErr *ErrShape
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, 2, shapeErr.Rows)
		assert.Equal(t, 2, shapeErr.Cols)
		assert.Equal(t, 3, shapeErr.Values)
	})

	t.Run("RowIDCount", func(t *testing.T) {
		_, err := New(3, 2, nil, func(o *Options) {
			o.RowIDs = []string{"FT1", "FT2"}
		})
		require.Error(t, err)

		var countErr *ErrIDCount
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, AxisRow, countErr.Axis)
		assert.Equal(t, 3, countErr.Want)
		assert.Equal(t, 2, countErr.Got)
	})

	t.Run("ColIDCount", func(t *testing.T) {
		_, err := New(3, 2, nil, func(o *Options) {
			o.ColIDs = []string{"S1"}
		})
		require.Error(t, err)

		var countErr *ErrIDCount
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, AxisCol, countErr.Axis)
	})

	t.Run("DuplicateRowID", func(t *testing.T) {
		_, err := New(3, 2, nil, func(o *Options) {
			o.RowIDs = []string{"FT1", "FT2", "FT1"}
		})
		require.Error(t, err)

		var dupErr *ErrDuplicateID
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, AxisRow, dupErr.Axis)
		assert.Equal(t, "FT1", dupErr.ID)
		assert.Equal(t, 0, dupErr.First)
		assert.Equal(t, 2, dupErr.Second)
	})

	t.Run("DuplicateColID", func(t *testing.T) {
		_, err := New(2, 2, nil, func(o *Options) {
			o.ColIDs = []string{"S1", "S1"}
		})
		require.Error(t, err)

		var dupErr *ErrDuplicateID
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, AxisCol, dupErr.Axis)
		assert.Equal(t, "S1", dupErr.ID)
	})

	t.Run("NilValuesZeroed", func(t *testing.T) {
		d, err := New(2, 3, nil)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				assert.Equal(t, 0.0, d.At(i, j))
			}
		}
	})
}

func TestNew_CopiesInputs(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	ids := []string{"S1", "S2"}

	d, err := New(2, 2, values, func(o *Options) {
		o.ColIDs = ids
	})
	require.NoError(t, err)

	values[0] = 99
	ids[0] = "S99"

	assert.Equal(t, 1.0, d.At(0, 0))
	assert.Equal(t, []string{"S1", "S2"}, d.ColIDs())
}

func TestDense_Accessors(t *testing.T) {
	d := testMatrix(t)

	rows, cols := d.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 3, d.Rows())
	assert.Equal(t, 2, d.Cols())

	assert.Equal(t, 4.5, d.At(1, 1))
	assert.Equal(t, []float64{3.5, 4.5}, d.Row(1))
	assert.Equal(t, []float64{2.5, 4.5, 6.5}, d.Col(1))

	assert.True(t, d.HasRowIDs())
	assert.True(t, d.HasColIDs())
	assert.Equal(t, []string{"FT1", "FT2", "FT3"}, d.RowIDs())
	assert.Equal(t, []string{"S1", "S2"}, d.ColIDs())

	i, ok := d.RowIndex("FT3")
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = d.ColIndex("S9")
	assert.False(t, ok)

	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5}, d.Values())
	assert.Equal(t, "Dense(3x2)", d.String())

	mr, mc := d.Mat().Dims()
	assert.Equal(t, 3, mr)
	assert.Equal(t, 2, mc)
}

func TestDense_AccessorCopies(t *testing.T) {
	d := testMatrix(t)

	row := d.Row(0)
	row[0] = 99
	assert.Equal(t, 1.5, d.At(0, 0))

	ids := d.RowIDs()
	ids[0] = "FT99"
	assert.Equal(t, []string{"FT1", "FT2", "FT3"}, d.RowIDs())
}

func TestDense_ByID(t *testing.T) {
	d := testMatrix(t)

	row, err := d.RowByID("FT2")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 4.5}, row)

	col, err := d.ColByID("S2")
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 4.5, 6.5}, col)

	_, err = d.RowByID("FT9")
	var unknownErr *ErrUnknownID
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, AxisRow, unknownErr.Axis)
	assert.Equal(t, "FT9", unknownErr.ID)

	bare, err := New(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = bare.ColByID("S1")
	var noIDsErr *ErrNoIDs
	require.ErrorAs(t, err, &noIDsErr)
	assert.Equal(t, AxisCol, noIDsErr.Axis)
}

func TestDense_Slice(t *testing.T) {
	d := testMatrix(t)

	t.Run("RestrictAndReorder", func(t *testing.T) {
		sub, err := d.Slice([]int{2, 0}, []int{1})
		require.NoError(t, err)

		assert.Equal(t, 2, sub.Rows())
		assert.Equal(t, 1, sub.Cols())
		assert.Equal(t, []string{"FT3", "FT1"}, sub.RowIDs())
		assert.Equal(t, []string{"S2"}, sub.ColIDs())
		assert.Equal(t, 6.5, sub.At(0, 0))
		assert.Equal(t, 2.5, sub.At(1, 0))
	})

	t.Run("NilSelectsAll", func(t *testing.T) {
		sub, err := d.Slice(nil, []int{0})
		require.NoError(t, err)

		assert.Equal(t, 3, sub.Rows())
		assert.Equal(t, []string{"FT1", "FT2", "FT3"}, sub.RowIDs())
		assert.Equal(t, []float64{1.5, 3.5, 5.5}, sub.Values())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := d.Slice([]int{0, 3}, nil)
		require.Error(t, err)

		var rangeErr *ErrPositionOutOfRange
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, AxisRow, rangeErr.Axis)
		assert.Equal(t, 3, rangeErr.Position)
		assert.Equal(t, 3, rangeErr.Size)
	})

	t.Run("DuplicatePositionWithIDs", func(t *testing.T) {
		_, err := d.Slice([]int{0, 0}, nil)
		require.Error(t, err)

		var dupErr *ErrDuplicateID
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "FT1", dupErr.ID)
	})

	t.Run("DuplicatePositionWithoutIDs", func(t *testing.T) {
		bare, err := New(2, 2, []float64{1, 2, 3, 4})
		require.NoError(t, err)

		sub, err := bare.Slice([]int{0, 0}, nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 1, 2}, sub.Values())
	})

	t.Run("EmptySelection", func(t *testing.T) {
		_, err := d.Slice([]int{}, nil)
		require.Error(t, err)

		var zeroErr *ErrZeroDimension
		assert.True(t, errors.As(err, &zeroErr))
	})

	t.Run("SourceUntouched", func(t *testing.T) {
		_, err := d.Slice([]int{1}, []int{0})
		require.NoError(t, err)

		assert.Equal(t, 3, d.Rows())
		assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5}, d.Values())
	})
}

func TestDense_Equal(t *testing.T) {
	d := testMatrix(t)
	same := testMatrix(t)

	assert.True(t, d.Equal(same))
	assert.False(t, d.Equal(nil))

	other, err := New(3, 2, d.Values(), func(o *Options) {
		o.RowIDs = []string{"FT1", "FT2", "FT9"}
		o.ColIDs = []string{"S1", "S2"}
	})
	require.NoError(t, err)
	assert.False(t, d.Equal(other))

	bare, err := New(3, 2, d.Values())
	require.NoError(t, err)
	assert.False(t, d.Equal(bare))
}

func TestFromMat(t *testing.T) {
	src := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	d, err := FromMat(src, func(o *Options) {
		o.ColIDs = []string{"S1", "S2"}
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4}, d.Values())
	assert.Equal(t, []string{"S1", "S2"}, d.ColIDs())
	assert.False(t, d.HasRowIDs())

	// Mutating the source afterwards must not affect the copy.
	src.Set(0, 0, 99)
	assert.Equal(t, 1.0, d.At(0, 0))
}
