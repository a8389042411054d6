// Package params owns the authoritative adjustment parameter set and the
// update protocol that keeps the GPU-visible uniform projection synchronized
// with it. All mutation goes through the Store: scalars field by field,
// matrix cells one at a time. Every successful mutation resynchronizes the
// projection before returning, so the next redraw always observes a fully
// written state.
package params

import "bayer-bender/internal/dither"

// FieldName identifies one scalar adjustment in the schema.
type FieldName string

const (
	FieldExposure   FieldName = "exposure"
	FieldContrast   FieldName = "contrast"
	FieldHighlights FieldName = "highlights"
	FieldShadows    FieldName = "shadows"
	FieldSaturation FieldName = "saturation"
)

// ScalarFields lists the settable scalar fields in uniform-block order.
var ScalarFields = []FieldName{
	FieldExposure,
	FieldContrast,
	FieldHighlights,
	FieldShadows,
	FieldSaturation,
}

// Range is the recommended slider range for a field.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

var fieldRanges = map[FieldName]Range{
	FieldExposure:   {Min: -2, Max: 2, Step: 0.05},
	FieldContrast:   {Min: 0, Max: 2, Step: 0.05},
	FieldHighlights: {Min: 0, Max: 2, Step: 0.05},
	FieldShadows:    {Min: 0.1, Max: 1.9, Step: 0.05},
	FieldSaturation: {Min: 0, Max: 2, Step: 0.05},
}

// RangeOf returns the recommended range for a known field.
func RangeOf(name FieldName) (Range, bool) {
	r, ok := fieldRanges[name]
	return r, ok
}

// Adjustments is the full parameter schema: five scalars plus the threshold
// matrix. Shadows must stay strictly positive; it ends up as an exponent
// denominator in the per-pixel function.
type Adjustments struct {
	Exposure   float32
	Contrast   float32
	Highlights float32
	Shadows    float32
	Saturation float32
	Matrix     *dither.Matrix
}

// Defaults returns the neutral parameter set with the canonical 4x4 Bayer
// matrix. Exposure is neutral at 0 (its bias term is exposure*0.25); the
// remaining scalars are neutral at 1.
func Defaults() Adjustments {
	return Adjustments{
		Exposure:   0,
		Contrast:   1,
		Highlights: 1,
		Shadows:    1,
		Saturation: 1,
		Matrix:     dither.MustBayer(4),
	}
}

// Scalar returns the named scalar field's current value.
func (a Adjustments) Scalar(name FieldName) (float32, bool) {
	switch name {
	case FieldExposure:
		return a.Exposure, true
	case FieldContrast:
		return a.Contrast, true
	case FieldHighlights:
		return a.Highlights, true
	case FieldShadows:
		return a.Shadows, true
	case FieldSaturation:
		return a.Saturation, true
	}
	return 0, false
}

func (a *Adjustments) setScalar(name FieldName, v float32) bool {
	switch name {
	case FieldExposure:
		a.Exposure = v
	case FieldContrast:
		a.Contrast = v
	case FieldHighlights:
		a.Highlights = v
	case FieldShadows:
		a.Shadows = v
	case FieldSaturation:
		a.Saturation = v
	default:
		return false
	}
	return true
}

// Clone returns a deep copy, including the matrix.
func (a Adjustments) Clone() Adjustments {
	out := a
	if a.Matrix != nil {
		out.Matrix = a.Matrix.Clone()
	}
	return out
}
