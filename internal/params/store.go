package params

import (
	"fmt"
	"sync"

	"bayer-bender/internal/dither"
	"bayer-bender/internal/logger"
)

const component = "ParameterStore"

// Projection is the GPU-visible copy of the parameter set. The render
// package's uniform block implements it. Scalars are pushed as partial
// writes; a cell edit re-flattens and pushes the whole matrix, since the
// changed offset depends on the row-major layout.
type Projection interface {
	WriteScalar(name FieldName, v float32) error
	WriteMatrix(cells []float32, width, height int) error
}

// Store is the adjustment state holder: the single authoritative parameter
// set, mutated field by field from UI events. Every successful mutation
// leaves the projection consistent with the in-memory parameters before the
// mutating call returns, then fires the change listener so the owner can
// request a redraw.
type Store struct {
	mu          sync.RWMutex
	adj         Adjustments
	proj        Projection
	onChange    func()
	initialized bool
	log         logger.Logger
}

// NewStore creates a store bound to a projection. The change listener may be
// nil; set one with OnChange before wiring UI events.
func NewStore(proj Projection, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop{}
	}
	return &Store{proj: proj, log: log}
}

// OnChange registers the redraw-request callback invoked after every
// successful mutation, once the projection is already synchronized.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Initialize establishes the full parameter set and performs one full
// synchronization to the projection. It must be called exactly once before
// any partial update.
func (s *Store) Initialize(defaults Adjustments) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return fmt.Errorf("parameter store already initialized")
	}
	if defaults.Matrix == nil {
		return fmt.Errorf("initial parameters need a threshold matrix")
	}
	if err := validateShadows(defaults.Shadows); err != nil {
		return err
	}

	adj := defaults.Clone()
	if err := s.syncAll(adj); err != nil {
		return fmt.Errorf("initial projection sync: %w", err)
	}
	s.adj = adj
	s.initialized = true

	s.log.Debug(component, "initialized", map[string]interface{}{
		"matrix_width":  adj.Matrix.Width(),
		"matrix_height": adj.Matrix.Height(),
	})
	return nil
}

// SetField updates one scalar adjustment and pushes only that field to the
// projection. Unknown names, including the matrix fields, are rejected with
// InvalidFieldError and leave prior state intact.
func (s *Store) SetField(name FieldName, v float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInit(); err != nil {
		return err
	}
	if _, known := s.adj.Scalar(name); !known {
		return &InvalidFieldError{Field: string(name)}
	}
	if name == FieldShadows {
		if err := validateShadows(v); err != nil {
			return err
		}
	}

	if err := s.proj.WriteScalar(name, v); err != nil {
		return fmt.Errorf("projecting %s: %w", name, err)
	}
	s.adj.setScalar(name, v)

	s.log.Debug(component, "field updated", map[string]interface{}{
		"field": string(name),
		"value": v,
	})
	s.notify()
	return nil
}

// SetMatrixCell updates one threshold cell, then re-flattens and pushes the
// whole matrix to the projection.
func (s *Store) SetMatrixCell(row, col int, v float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInit(); err != nil {
		return err
	}
	m := s.adj.Matrix
	if row < 0 || row >= m.Height() {
		return &OutOfRangeError{Name: "row", Value: float64(row), Min: 0, Max: float64(m.Height() - 1)}
	}
	if col < 0 || col >= m.Width() {
		return &OutOfRangeError{Name: "col", Value: float64(col), Min: 0, Max: float64(m.Width() - 1)}
	}

	prev, _ := m.Cell(row, col)
	if err := m.SetCell(row, col, v); err != nil {
		return err
	}
	if err := s.proj.WriteMatrix(m.Flatten(), m.Width(), m.Height()); err != nil {
		m.SetCell(row, col, prev)
		return fmt.Errorf("projecting matrix: %w", err)
	}

	s.log.Debug(component, "matrix cell updated", map[string]interface{}{
		"row":   row,
		"col":   col,
		"value": v,
	})
	s.notify()
	return nil
}

// ReplaceMatrix swaps in a new threshold matrix wholesale and pushes the full
// flattened array. Only the size selector uses this; cell edits go through
// SetMatrixCell.
func (s *Store) ReplaceMatrix(m *dither.Matrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInit(); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("replacement matrix is nil")
	}
	clone := m.Clone()
	if err := s.proj.WriteMatrix(clone.Flatten(), clone.Width(), clone.Height()); err != nil {
		return fmt.Errorf("projecting matrix: %w", err)
	}
	s.adj.Matrix = clone

	s.log.Debug(component, "matrix replaced", map[string]interface{}{
		"matrix_width":  clone.Width(),
		"matrix_height": clone.Height(),
	})
	s.notify()
	return nil
}

// Snapshot returns a deep copy of the current parameters.
func (s *Store) Snapshot() Adjustments {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adj.Clone()
}

func (s *Store) requireInit() error {
	if !s.initialized {
		return fmt.Errorf("parameter store not initialized")
	}
	return nil
}

func (s *Store) syncAll(adj Adjustments) error {
	if err := s.proj.WriteMatrix(adj.Matrix.Flatten(), adj.Matrix.Width(), adj.Matrix.Height()); err != nil {
		return err
	}
	for _, name := range ScalarFields {
		v, _ := adj.Scalar(name)
		if err := s.proj.WriteScalar(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func validateShadows(v float32) error {
	r := fieldRanges[FieldShadows]
	if float64(v) < r.Min || float64(v) > r.Max {
		return &OutOfRangeError{Name: string(FieldShadows), Value: float64(v), Min: r.Min, Max: r.Max}
	}
	return nil
}
