package tonemap

import "math"

// Perceptual luminance weights (ITU-R BT.601). Fixed, not configurable.
const (
	lumR = 0.299
	lumG = 0.587
	lumB = 0.114
)

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// step returns 1 when v >= edge, 0 otherwise.
func step(edge, v float32) float32 {
	if v >= edge {
		return 1
	}
	return 0
}

// smoothstep ramps from 0 at edge0 to 1 at edge1 with a cubic ease.
func smoothstep(edge0, edge1, v float32) float32 {
	t := clamp((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func exp2(v float32) float32 {
	return float32(math.Exp2(float64(v)))
}

// powf raises v to exp, clamping negative bases to zero so callers never
// produce NaN from a fractional exponent.
func powf(v, exp float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Pow(float64(v), float64(exp)))
}
