package render

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayer-bender/internal/dither"
	"bayer-bender/internal/params"
	"bayer-bender/internal/tonemap"
)

func grayImage(w, h int, y uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			img.Set(px, py, color.NRGBA{R: y, G: y, B: y, A: 255})
		}
	}
	return img
}

func neutralUniforms(t *testing.T, matrixSize int) *UniformBlock {
	t.Helper()
	m := dither.MustBayer(matrixSize)
	u, err := NewUniformBlock(matrixSize * matrixSize)
	require.NoError(t, err)
	require.NoError(t, u.WriteMatrix(m.Flatten(), matrixSize, matrixSize))
	require.NoError(t, u.WriteScalar(params.FieldExposure, 0))
	require.NoError(t, u.WriteScalar(params.FieldContrast, 1))
	require.NoError(t, u.WriteScalar(params.FieldHighlights, 1))
	require.NoError(t, u.WriteScalar(params.FieldShadows, 1))
	require.NoError(t, u.WriteScalar(params.FieldSaturation, 1))
	return u
}

func TestOpenSoftwareBackend(t *testing.T) {
	device, err := Open(BackendSoftware, Options{Workers: 2})
	require.NoError(t, err)
	defer device.Close()
	assert.Equal(t, BackendSoftware, device.Name())
}

func TestOpenUnknownBackendFails(t *testing.T) {
	_, err := Open("wgpu", Options{})
	var unavailable *DeviceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "wgpu", unavailable.Backend)
}

func TestSubmitIdentityPassThrough(t *testing.T) {
	device, err := Open(BackendSoftware, Options{Workers: 2})
	require.NoError(t, err)
	defer device.Close()

	src := grayImage(3, 3, 100)
	tex, err := device.CreateTexture(src)
	require.NoError(t, err)

	out, err := device.Submit(context.Background(), Job{
		Texture:  tex,
		Uniforms: neutralUniforms(t, 4),
	})
	require.NoError(t, err)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			got := out.NRGBAAt(x, y)
			assert.Equal(t, uint8(100), got.R, "(%d,%d)", x, y)
			assert.Equal(t, uint8(100), got.G)
			assert.Equal(t, uint8(100), got.B)
			assert.Equal(t, uint8(255), got.A)
		}
	}
}

func TestSubmitDitherMatchesThresholdMatrix(t *testing.T) {
	device, err := Open(BackendSoftware, Options{Workers: 4})
	require.NoError(t, err)
	defer device.Close()

	src := grayImage(8, 8, 128)
	tex, err := device.CreateTexture(src)
	require.NoError(t, err)

	out, err := device.Submit(context.Background(), Job{
		Texture:  tex,
		Uniforms: neutralUniforms(t, 4),
		Stages:   tonemap.StageDither,
	})
	require.NoError(t, err)

	m := dither.MustBayer(4)
	lum := float32(128) / 255
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint8(0)
			if lum >= m.At(x, y) {
				want = 255
			}
			got := out.NRGBAAt(x, y)
			assert.Equal(t, want, got.R, "(%d,%d) threshold %g", x, y, m.At(x, y))
			assert.Equal(t, got.R, got.G)
			assert.Equal(t, got.R, got.B)
		}
	}
}

func TestSubmitValidatesSnapshot(t *testing.T) {
	device, err := Open(BackendSoftware, Options{Workers: 1})
	require.NoError(t, err)
	defer device.Close()

	tex, err := device.CreateTexture(grayImage(2, 2, 10))
	require.NoError(t, err)

	// Shadows defaults to zero in a fresh block: render must refuse rather
	// than divide by zero.
	u, err := NewUniformBlock(4)
	require.NoError(t, err)
	_, err = device.Submit(context.Background(), Job{Texture: tex, Uniforms: u})
	assert.Error(t, err)

	_, err = device.Submit(context.Background(), Job{Texture: tex})
	assert.Error(t, err, "missing uniform block")
}

func TestSubmitAfterCloseFails(t *testing.T) {
	device, err := Open(BackendSoftware, Options{Workers: 1})
	require.NoError(t, err)

	tex, err := device.CreateTexture(grayImage(2, 2, 10))
	require.NoError(t, err)
	require.NoError(t, device.Close())

	_, err = device.Submit(context.Background(), Job{Texture: tex, Uniforms: neutralUniforms(t, 2)})
	assert.Error(t, err)
}

func TestCreateTextureRejectsEmptyImages(t *testing.T) {
	device, err := Open(BackendSoftware, Options{Workers: 1})
	require.NoError(t, err)
	defer device.Close()

	_, err = device.CreateTexture(nil)
	assert.Error(t, err)

	_, err = device.CreateTexture(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}
