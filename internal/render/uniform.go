package render

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"bayer-bender/internal/params"
	"bayer-bender/internal/tonemap"
)

// Uniform block layout, little-endian:
//
//	exposure   f32 @ 0
//	contrast   f32 @ 4
//	highlights f32 @ 8
//	shadows    f32 @ 12
//	saturation f32 @ 16
//	matrix     f32[N] @ 20
//	width      i32 @ 20+4N
//	height     i32 @ 24+4N
//
// This is the wire format the per-pixel function reads; field order and types
// must not change independently of the fragment evaluator.
const (
	offExposure   = 0
	offContrast   = 4
	offHighlights = 8
	offShadows    = 12
	offSaturation = 16
	offMatrix     = 20
)

var scalarOffsets = map[params.FieldName]int{
	params.FieldExposure:   offExposure,
	params.FieldContrast:   offContrast,
	params.FieldHighlights: offHighlights,
	params.FieldShadows:    offShadows,
	params.FieldSaturation: offSaturation,
}

// UniformBlock is the CPU-resident uniform buffer: the projection of the
// adjustment parameters the fragment evaluator samples once per frame.
// Scalar writes patch four bytes at the field's offset; matrix writes replace
// the whole array region. One writer (the parameter store) and one reader
// (the render submit) share it, guarded so a frame never decodes a torn
// snapshot.
type UniformBlock struct {
	mu        sync.RWMutex
	buf       []byte
	matrixLen int
}

// NewUniformBlock allocates a block sized for a matrix of matrixLen entries.
func NewUniformBlock(matrixLen int) (*UniformBlock, error) {
	if matrixLen < 1 {
		return nil, fmt.Errorf("uniform block needs at least one matrix entry, got %d", matrixLen)
	}
	return &UniformBlock{
		buf:       make([]byte, offMatrix+4*matrixLen+8),
		matrixLen: matrixLen,
	}, nil
}

// Size returns the block's byte length.
func (u *UniformBlock) Size() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.buf)
}

// WriteScalar patches one scalar field in place.
func (u *UniformBlock) WriteScalar(name params.FieldName, v float32) error {
	off, ok := scalarOffsets[name]
	if !ok {
		return fmt.Errorf("no uniform offset for field %q", name)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	binary.LittleEndian.PutUint32(u.buf[off:], math.Float32bits(v))
	return nil
}

// WriteMatrix replaces the matrix region and trailing dimensions. A size
// change reallocates the block, since the dimension fields live after the
// array.
func (u *UniformBlock) WriteMatrix(cells []float32, width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("matrix dimensions must be at least 1x1, got %dx%d", width, height)
	}
	if len(cells) != width*height {
		return fmt.Errorf("matrix needs %d cells for %dx%d, got %d", width*height, width, height, len(cells))
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if len(cells) != u.matrixLen {
		next := make([]byte, offMatrix+4*len(cells)+8)
		copy(next, u.buf[:offMatrix])
		u.buf = next
		u.matrixLen = len(cells)
	}
	for i, c := range cells {
		binary.LittleEndian.PutUint32(u.buf[offMatrix+4*i:], math.Float32bits(c))
	}
	dims := offMatrix + 4*u.matrixLen
	binary.LittleEndian.PutUint32(u.buf[dims:], uint32(int32(width)))
	binary.LittleEndian.PutUint32(u.buf[dims+4:], uint32(int32(height)))
	return nil
}

// Scalar reads one scalar field back from the block.
func (u *UniformBlock) Scalar(name params.FieldName) (float32, error) {
	off, ok := scalarOffsets[name]
	if !ok {
		return 0, fmt.Errorf("no uniform offset for field %q", name)
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return math.Float32frombits(binary.LittleEndian.Uint32(u.buf[off:])), nil
}

// Matrix decodes the matrix region and its dimensions.
func (u *UniformBlock) Matrix() ([]float32, int, int) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	cells := make([]float32, u.matrixLen)
	for i := range cells {
		cells[i] = math.Float32frombits(binary.LittleEndian.Uint32(u.buf[offMatrix+4*i:]))
	}
	dims := offMatrix + 4*u.matrixLen
	width := int(int32(binary.LittleEndian.Uint32(u.buf[dims:])))
	height := int(int32(binary.LittleEndian.Uint32(u.buf[dims+4:])))
	return cells, width, height
}

// Snapshot decodes the whole block into the parameter struct the fragment
// evaluator consumes. The decode happens under one read lock, so a frame
// never observes a half-applied update.
func (u *UniformBlock) Snapshot(stages tonemap.Stages) tonemap.Params {
	u.mu.RLock()
	defer u.mu.RUnlock()

	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(u.buf[off:]))
	}
	cells := make([]float32, u.matrixLen)
	for i := range cells {
		cells[i] = read(offMatrix + 4*i)
	}
	dims := offMatrix + 4*u.matrixLen
	return tonemap.Params{
		Exposure:     read(offExposure),
		Contrast:     read(offContrast),
		Highlights:   read(offHighlights),
		Shadows:      read(offShadows),
		Saturation:   read(offSaturation),
		Matrix:       cells,
		MatrixWidth:  int(int32(binary.LittleEndian.Uint32(u.buf[dims:]))),
		MatrixHeight: int(int32(binary.LittleEndian.Uint32(u.buf[dims+4:]))),
		Stages:       stages,
	}
}

// Bytes returns a copy of the raw block, in wire order.
func (u *UniformBlock) Bytes() []byte {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]byte, len(u.buf))
	copy(out, u.buf)
	return out
}
