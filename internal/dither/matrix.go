// Package dither provides the ordered-dithering threshold matrix: a small 2D
// grid of evenly distributed thresholds in [0, 1) that tiles across the
// output frame. Cells are editable one at a time; every edit re-derives the
// flattened row-major array pushed to the uniform projection.
package dither

import "fmt"

// Matrix is a row-major threshold grid. Entries live in [0, 1).
type Matrix struct {
	width  int
	height int
	cells  []float32
}

// CellStep is the increment applied by Increment and Decrement, one level of
// the canonical 4x4 grid.
const CellStep = float32(1.0 / 16.0)

// New builds a matrix from a flattened row-major cell slice. The slice is
// copied; len(cells) must equal width*height.
func New(width, height int, cells []float32) (*Matrix, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("matrix dimensions must be at least 1x1, got %dx%d", width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("matrix needs %d cells for %dx%d, got %d", width*height, width, height, len(cells))
	}
	m := &Matrix{width: width, height: height, cells: make([]float32, len(cells))}
	copy(m.cells, cells)
	return m, nil
}

// Bayer constructs the ordered-dither threshold matrix of the given
// power-of-two size. Thresholds are the set {k/size² : k in 0..size²-1} in
// the classic recursive arrangement, so they cover the unit interval evenly
// and deterministically.
func Bayer(size int) (*Matrix, error) {
	if size < 1 || size&(size-1) != 0 {
		return nil, fmt.Errorf("bayer matrix size must be a power of two, got %d", size)
	}
	ranks := bayerRanks(size)
	cells := make([]float32, len(ranks))
	n := float32(size * size)
	for i, r := range ranks {
		cells[i] = float32(r) / n
	}
	return &Matrix{width: size, height: size, cells: cells}, nil
}

// MustBayer is Bayer for sizes known to be valid at compile time.
func MustBayer(size int) *Matrix {
	m, err := Bayer(size)
	if err != nil {
		panic(err)
	}
	return m
}

// bayerRanks returns the integer rank grid, row-major. Each doubling step
// spreads the quarter-size grid into four quadrants with offsets chosen so
// that, read column by column, the ranks follow the canonical Bayer order:
// the quadrant offsets are 0 (top-left), 3 (top-right), 2 (bottom-left),
// 1 (bottom-right).
func bayerRanks(size int) []int {
	ranks := []int{0}
	for n := 1; n < size; n *= 2 {
		next := make([]int, 4*n*n)
		stride := 2 * n
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				base := 4 * ranks[y*n+x]
				next[y*stride+x] = base
				next[y*stride+x+n] = base + 3
				next[(y+n)*stride+x] = base + 2
				next[(y+n)*stride+x+n] = base + 1
			}
		}
		ranks = next
	}
	return ranks
}

// Width returns the number of columns.
func (m *Matrix) Width() int { return m.width }

// Height returns the number of rows.
func (m *Matrix) Height() int { return m.height }

// Cell returns the value at (row, col) without tiling.
func (m *Matrix) Cell(row, col int) (float32, error) {
	if err := m.checkBounds(row, col); err != nil {
		return 0, err
	}
	return m.cells[row*m.width+col], nil
}

// SetCell replaces the value at (row, col).
func (m *Matrix) SetCell(row, col int, v float32) error {
	if err := m.checkBounds(row, col); err != nil {
		return err
	}
	m.cells[row*m.width+col] = v
	return nil
}

// Increment raises the cell by CellStep, capped just below 1 so the entry
// stays a valid threshold.
func (m *Matrix) Increment(row, col int) error {
	v, err := m.Cell(row, col)
	if err != nil {
		return err
	}
	v += CellStep
	if v >= 1 {
		v = 1 - CellStep
	}
	return m.SetCell(row, col, v)
}

// Decrement lowers the cell by CellStep, floored at 0.
func (m *Matrix) Decrement(row, col int) error {
	v, err := m.Cell(row, col)
	if err != nil {
		return err
	}
	v -= CellStep
	if v < 0 {
		v = 0
	}
	return m.SetCell(row, col, v)
}

// At returns the threshold for output pixel (x, y), tiling the matrix with
// modular indexing. x and y must be non-negative.
func (m *Matrix) At(x, y int) float32 {
	return m.cells[(y%m.height)*m.width+(x%m.width)]
}

// Flatten returns a copy of the row-major cell array, the layout the uniform
// projection consumes.
func (m *Matrix) Flatten() []float32 {
	out := make([]float32, len(m.cells))
	copy(out, m.cells)
	return out
}

// Clone returns an independent copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{width: m.width, height: m.height, cells: m.Flatten()}
}

func (m *Matrix) checkBounds(row, col int) error {
	if row < 0 || row >= m.height {
		return fmt.Errorf("row %d outside matrix height %d", row, m.height)
	}
	if col < 0 || col >= m.width {
		return fmt.Errorf("col %d outside matrix width %d", col, m.width)
	}
	return nil
}
