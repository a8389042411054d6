package tonemap

// RGB is a linear color triple with channels nominally in [0, 1]. The
// exposure stage may push channels up to 2 before later stages clamp back.
type RGB struct {
	R, G, B float32
}

// Gray returns the uniform gray color with all channels set to v.
func Gray(v float32) RGB {
	return RGB{R: v, G: v, B: v}
}

// Luminance returns the perceptual luminance of c using the fixed
// 0.299/0.587/0.114 weights.
func (c RGB) Luminance() float32 {
	return c.R*lumR + c.G*lumG + c.B*lumB
}

func (c RGB) scale(f float32) RGB {
	return RGB{R: c.R * f, G: c.G * f, B: c.B * f}
}

func (c RGB) clamp(lo, hi float32) RGB {
	return RGB{
		R: clamp(c.R, lo, hi),
		G: clamp(c.G, lo, hi),
		B: clamp(c.B, lo, hi),
	}
}

func (c RGB) mix(other RGB, t float32) RGB {
	return RGB{
		R: mix(c.R, other.R, t),
		G: mix(c.G, other.G, t),
		B: mix(c.B, other.B, t),
	}
}

func (c RGB) pow(exp float32) RGB {
	return RGB{
		R: powf(c.R, exp),
		G: powf(c.G, exp),
		B: powf(c.B, exp),
	}
}
