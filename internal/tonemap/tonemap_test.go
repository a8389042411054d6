package tonemap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayer-bender/internal/dither"
)

func neutralWith(stages Stages) Params {
	p := Neutral()
	p.Stages = stages
	m := dither.MustBayer(4)
	p.Matrix = m.Flatten()
	p.MatrixWidth = m.Width()
	p.MatrixHeight = m.Height()
	return p
}

func TestComputeIdentityAtNeutral(t *testing.T) {
	colors := []RGB{
		{0, 0, 0},
		{1, 1, 1},
		{0.5, 0.5, 0.5},
		{0.25, 0.5, 0.75},
		{0.9, 0.1, 0.3},
	}

	for _, c := range colors {
		got := Compute(c, 0, 0, Neutral())
		assert.InDelta(t, c.R, got.R, 1e-5, "R for %+v", c)
		assert.InDelta(t, c.G, got.G, 1e-5, "G for %+v", c)
		assert.InDelta(t, c.B, got.B, 1e-5, "B for %+v", c)
	}
}

func TestComputeIdentityWithSaturationStage(t *testing.T) {
	p := Neutral()
	p.Stages = StageSaturation

	c := RGB{0.25, 0.5, 0.75}
	got := Compute(c, 0, 0, p)
	assert.InDelta(t, c.R, got.R, 1e-5)
	assert.InDelta(t, c.G, got.G, 1e-5)
	assert.InDelta(t, c.B, got.B, 1e-5)
}

func TestComputeExposureScalesLinearly(t *testing.T) {
	p := Neutral()
	p.Exposure = 4 // bias 1, gain 2

	got := Compute(RGB{0.25, 0.25, 0.25}, 0, 0, p)
	assert.InDelta(t, 0.5, got.R, 1e-5)
	assert.InDelta(t, 0.5, got.G, 1e-5)
	assert.InDelta(t, 0.5, got.B, 1e-5)
}

func TestComputeContrastPivotsAroundMidGray(t *testing.T) {
	p := Neutral()
	p.Contrast = 2

	bright := Compute(RGB{0.75, 0.75, 0.75}, 0, 0, p)
	assert.InDelta(t, 1.0, bright.R, 1e-5)

	dark := Compute(RGB{0.25, 0.25, 0.25}, 0, 0, p)
	assert.InDelta(t, 0.0, dark.R, 1e-5)

	mid := Compute(RGB{0.5, 0.5, 0.5}, 0, 0, p)
	assert.InDelta(t, 0.5, mid.R, 1e-5)
}

func TestComputeHighlightAsymmetry(t *testing.T) {
	// 0.6 gray: bright enough for the highlight ramp to engage a little,
	// dim enough that no clamp interferes.
	c := RGB{0.6, 0.6, 0.6}

	raise := Neutral()
	raise.Highlights = 2
	raised := Compute(c, 0, 0, raise)

	lower := Neutral()
	lower.Highlights = 0
	lowered := Compute(c, 0, 0, lower)

	require.Greater(t, raised.R, float32(0.6))
	require.Less(t, lowered.R, float32(0.6))

	// Lowering is damped to a quarter of the raise response.
	raiseDelta := float64(raised.R - 0.6)
	lowerDelta := float64(0.6 - lowered.R)
	assert.InDelta(t, 4.0, raiseDelta/lowerDelta, 1e-2)
}

func TestComputeShadowsLiftAndDeepen(t *testing.T) {
	c := RGB{0.2, 0.2, 0.2}

	lift := Neutral()
	lift.Shadows = 1.9
	lifted := Compute(c, 0, 0, lift)
	assert.Greater(t, lifted.R, float32(0.2))

	deepen := Neutral()
	deepen.Shadows = 0.5
	deepened := Compute(c, 0, 0, deepen)
	assert.Less(t, deepened.R, float32(0.2))
}

func TestComputeSaturationZeroIsGrayscale(t *testing.T) {
	p := Neutral()
	p.Stages = StageSaturation
	p.Saturation = 0

	c := RGB{0.2, 0.5, 0.8}
	want := c.Luminance()
	got := Compute(c, 0, 0, p)
	assert.InDelta(t, want, got.R, 1e-5)
	assert.InDelta(t, want, got.G, 1e-5)
	assert.InDelta(t, want, got.B, 1e-5)
}

func TestComputeDitherOutputIsBinary(t *testing.T) {
	p := neutralWith(StageDither)

	colors := []RGB{
		{0, 0, 0},
		{1, 1, 1},
		{0.3, 0.6, 0.2},
		{0.51, 0.49, 0.5},
	}
	for _, c := range colors {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				got := Compute(c, x, y, p)
				assert.Contains(t, []float32{0, 1}, got.R)
				assert.Equal(t, got.R, got.G)
				assert.Equal(t, got.R, got.B)
			}
		}
	}
}

func TestComputeDitherMidGrayScenario(t *testing.T) {
	p := neutralWith(StageDither)
	mid := RGB{0.5, 0.5, 0.5}

	// Pixel (0,0): threshold 0/16, luminance 0.5 >= 0 -> white.
	white := Compute(mid, 0, 0, p)
	assert.Equal(t, RGB{1, 1, 1}, white)

	// Pixel (3,0): threshold 15/16, luminance 0.5 < 0.9375 -> black.
	black := Compute(mid, 3, 0, p)
	assert.Equal(t, RGB{0, 0, 0}, black)
}

func TestThresholdTiles(t *testing.T) {
	p := neutralWith(StageDither)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, p.Threshold(x, y), p.Threshold(x+p.MatrixWidth, y))
			assert.Equal(t, p.Threshold(x, y), p.Threshold(x, y+p.MatrixHeight))
		}
	}
}

func TestComputeIsTotalOverParameterSpace(t *testing.T) {
	colors := []RGB{
		{0, 0, 0}, {1, 1, 1}, {0.5, 0.5, 0.5}, {0.1, 0.8, 0.4},
		{-0.5, 1.5, 0.5}, // out-of-range inputs get clamped up front
	}
	exposures := []float32{-2, 0, 2}
	contrasts := []float32{0, 1, 2}
	highlights := []float32{0, 1, 2}
	shadows := []float32{0.1, 1, 1.9}
	saturations := []float32{0, 1, 2}

	for _, c := range colors {
		for _, e := range exposures {
			for _, ct := range contrasts {
				for _, h := range highlights {
					for _, s := range shadows {
						for _, sat := range saturations {
							p := neutralWith(StageSaturation | StageDither)
							p.Exposure = e
							p.Contrast = ct
							p.Highlights = h
							p.Shadows = s
							p.Saturation = sat

							got := Compute(c, 3, 2, p)
							for _, ch := range []float32{got.R, got.G, got.B} {
								f := float64(ch)
								require.False(t, math.IsNaN(f) || math.IsInf(f, 0),
									"non-finite channel for color=%+v e=%g ct=%g h=%g s=%g sat=%g",
									c, e, ct, h, s, sat)
							}
						}
					}
				}
			}
		}
	}
}
