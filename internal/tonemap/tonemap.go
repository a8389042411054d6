// Package tonemap implements the per-pixel tone-mapping and ordered-dithering
// computation. Compute is a pure function of the sampled color, the pixel
// coordinate and the current parameter snapshot: it is what a fragment shader
// would run, expressed on the CPU, and the render device invokes it once per
// output pixel.
package tonemap

// exposureBiasScale converts the exposure parameter into a log2 bias. An
// exposure of 0 is neutral; the recommended range [-2, 2] maps to a half-stop
// swing in either direction.
const exposureBiasScale = 0.25

// Stages selects which optional terminal stages run after the fixed
// exposure/contrast/highlights/shadows chain.
type Stages uint8

const (
	// StageSaturation blends between the grayscale tone and the full-color
	// tone; saturation 0 is pure grayscale, 1 the unmodified tone, and values
	// above 1 over-saturate.
	StageSaturation Stages = 1 << iota
	// StageDither quantizes luminance against the tiled threshold matrix.
	// Without StageSaturation the result is pure black/white; with it the
	// dither gates the saturated color instead.
	StageDither
)

// Has reports whether stage is enabled.
func (s Stages) Has(stage Stages) bool {
	return s&stage != 0
}

// Params is the uniform snapshot read by Compute. Matrix holds the threshold
// grid flattened row-major; callers must keep len(Matrix) equal to
// MatrixWidth*MatrixHeight and Shadows strictly positive.
type Params struct {
	Exposure   float32
	Contrast   float32
	Highlights float32
	Shadows    float32
	Saturation float32

	Matrix       []float32
	MatrixWidth  int
	MatrixHeight int

	Stages Stages
}

// Neutral returns parameters under which Compute is the identity for any
// in-range color (before the optional dither stage).
func Neutral() Params {
	return Params{
		Exposure:   0,
		Contrast:   1,
		Highlights: 1,
		Shadows:    1,
		Saturation: 1,
	}
}

// Threshold returns the matrix entry for output pixel (x, y), tiling the
// matrix across the frame with modular indexing.
func (p Params) Threshold(x, y int) float32 {
	col := x % p.MatrixWidth
	row := y % p.MatrixHeight
	return p.Matrix[row*p.MatrixWidth+col]
}

// Compute transforms one sampled color through the fixed adjustment pipeline:
// exposure, contrast, highlights, shadows, then the optional saturation and
// dither stages. The stage order and the choice of which luminance value
// feeds each stage are deliberate; reordering them changes the visual result.
func Compute(c RGB, x, y int, p Params) RGB {
	norm := c.clamp(0, 1)
	lum := norm.Luminance()

	// Exposure. The [0, 2] clamp leaves headroom above 1 for the contrast
	// stage to pull back down.
	gain := exp2(p.Exposure * exposureBiasScale)
	expColor := norm.scale(gain).clamp(0, 2)
	expLum := clamp(lum*gain, 0, 2)

	// Contrast pivots around mid gray, unclamped.
	conColor := RGB{
		R: (expColor.R-0.5)*p.Contrast + 0.5,
		G: (expColor.G-0.5)*p.Contrast + 0.5,
		B: (expColor.B-0.5)*p.Contrast + 0.5,
	}
	conLum := (expLum-0.5)*p.Contrast + 0.5

	// The scalar luminance thread and the luminance of the adjusted color
	// diverge from here on; both are carried forward on purpose.
	conColorLum := conColor.Luminance()

	// Highlights engage only for bright pixels, ramping in over luminance
	// 0.5..1. Lowering highlights is damped to a quarter of the raise
	// response.
	shift := p.Highlights - 1
	if p.Highlights < 1 {
		shift *= 0.25
	}
	factor := 1 + shift*0.5*conColorLum
	hlWeight := smoothstep(0.5, 1, conColorLum)
	hlColor := conColor.mix(conColor.scale(factor).clamp(0, 1), hlWeight)
	hlLum := mix(conLum, clamp(conLum*factor, 0, 1), hlWeight)

	// Shadows engage for dark pixels with the complementary linear weight.
	// Shadows below 1 steepen the curve, above 1 lift it.
	shWeight := 1 - conColorLum
	curve := 1 / p.Shadows
	toneColor := hlColor.mix(hlColor.pow(curve), shWeight).clamp(0, 1)
	toneLum := clamp(mix(hlLum, powf(hlLum, curve), shWeight), 0, 1)

	out := toneColor
	if p.Stages.Has(StageSaturation) {
		out = Gray(toneLum).mix(toneColor, p.Saturation)
	}
	if p.Stages.Has(StageDither) {
		on := step(p.Threshold(x, y), toneLum)
		if p.Stages.Has(StageSaturation) {
			out = out.scale(on)
		} else {
			out = Gray(on)
		}
	}
	return out
}
