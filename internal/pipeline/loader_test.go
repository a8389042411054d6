package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadFromBytesDecodesPNG(t *testing.T) {
	loader := NewLoader(nil)

	src, err := loader.LoadFromBytes(encodePNG(t, 6, 4), ".png")
	require.NoError(t, err)

	assert.Equal(t, 6, src.Width)
	assert.Equal(t, 4, src.Height)
	assert.Equal(t, "png", src.Format)
	assert.NotNil(t, src.Image)
}

func TestLoadFromBytesRejectsGarbage(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.LoadFromBytes([]byte("not an image"), ".png")
	var loadErr *AssetLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.LoadFromPath("/nonexistent/image.png")
	var loadErr *AssetLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "/nonexistent/image.png", loadErr.Source)
}

func TestActualFormat(t *testing.T) {
	cases := []struct {
		ext, std, want string
	}{
		{".jpg", "jpeg", "jpeg"},
		{".jpeg", "", "jpeg"},
		{".png", "png", "png"},
		{".webp", "", "webp"},
		{".xyz", "gif", "gif"},
		{"", "", "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, actualFormat(tc.ext, tc.std), "ext=%q std=%q", tc.ext, tc.std)
	}
}
