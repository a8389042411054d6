package dither

import (
	"image"
	"image/color"

	mwdither "github.com/makeworld-the-better-one/dither/v2"
)

// FloydSteinberg renders a black/white error-diffusion version of img for the
// side-by-side comparison view. Ordered dithering trades the diffusion
// algorithm's accuracy for per-pixel independence; showing both makes the
// difference visible.
func FloydSteinberg(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	palette := []color.Color{
		color.Gray{Y: 0},
		color.Gray{Y: 255},
	}
	d := mwdither.NewDitherer(palette)
	d.Matrix = mwdither.FloydSteinberg
	return d.Dither(img)
}
