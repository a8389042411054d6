package dither

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBayerRejectsNonPowerOfTwo(t *testing.T) {
	for _, size := range []int{0, -1, 3, 6, 12} {
		_, err := Bayer(size)
		assert.Error(t, err, "size %d", size)
	}
}

func TestBayerCoversUnitIntervalEvenly(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8} {
		m, err := Bayer(size)
		require.NoError(t, err)

		cells := m.Flatten()
		require.Len(t, cells, size*size)

		sorted := make([]float64, len(cells))
		for i, c := range cells {
			sorted[i] = float64(c)
		}
		sort.Float64s(sorted)

		n := float64(size * size)
		for k, v := range sorted {
			assert.InDelta(t, float64(k)/n, v, 1e-7, "size %d rank %d", size, k)
		}
	}
}

func TestBayerIsDeterministic(t *testing.T) {
	a := MustBayer(8)
	b := MustBayer(8)
	assert.Equal(t, a.Flatten(), b.Flatten())
}

func TestBayerCanonicalArrangement(t *testing.T) {
	m := MustBayer(4)

	// The corner cells of the classic pattern: rank 0 at the origin, rank 15
	// at the end of the first row.
	v, err := m.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(0), v)

	v, err = m.Cell(0, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(15.0/16.0), v)
}

func TestAtTilesAcrossTheFrame(t *testing.T) {
	m := MustBayer(4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, m.At(x, y), m.At(x+m.Width(), y))
			assert.Equal(t, m.At(x, y), m.At(x, y+m.Height()))
			assert.Equal(t, m.At(x, y), m.At(x+3*m.Width(), y+2*m.Height()))
		}
	}
}

func TestSetCellLandsAtFlattenedIndex(t *testing.T) {
	m := MustBayer(4)
	require.NoError(t, m.SetCell(2, 1, 0.42))

	cells := m.Flatten()
	assert.Equal(t, float32(0.42), cells[2*m.Width()+1])
}

func TestSetCellBounds(t *testing.T) {
	m := MustBayer(2)
	assert.Error(t, m.SetCell(-1, 0, 0.5))
	assert.Error(t, m.SetCell(0, -1, 0.5))
	assert.Error(t, m.SetCell(2, 0, 0.5))
	assert.Error(t, m.SetCell(0, 2, 0.5))
}

func TestIncrementDecrementClamp(t *testing.T) {
	m := MustBayer(2)
	require.NoError(t, m.SetCell(0, 0, 0))
	require.NoError(t, m.Decrement(0, 0))
	v, _ := m.Cell(0, 0)
	assert.Equal(t, float32(0), v)

	require.NoError(t, m.SetCell(0, 0, 1-CellStep))
	require.NoError(t, m.Increment(0, 0))
	v, _ = m.Cell(0, 0)
	assert.Less(t, v, float32(1))

	require.NoError(t, m.SetCell(0, 0, 0.5))
	require.NoError(t, m.Increment(0, 0))
	v, _ = m.Cell(0, 0)
	assert.InDelta(t, 0.5+float64(CellStep), float64(v), 1e-7)
}

func TestNewValidatesShape(t *testing.T) {
	_, err := New(0, 4, nil)
	assert.Error(t, err)

	_, err = New(2, 2, []float32{0, 0.5})
	assert.Error(t, err)

	m, err := New(2, 1, []float32{0, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Width())
	assert.Equal(t, 1, m.Height())
}

func TestCloneIsIndependent(t *testing.T) {
	a := MustBayer(2)
	b := a.Clone()
	require.NoError(t, b.SetCell(0, 0, 0.9))

	va, _ := a.Cell(0, 0)
	vb, _ := b.Cell(0, 0)
	assert.NotEqual(t, va, vb)
}
