// Package pipeline loads the source bitmap the render session samples from.
// The image is fetched once at startup and is immutable afterwards; a load
// failure is fatal to initialization, there is no placeholder rendering.
package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"gocv.io/x/gocv"

	"bayer-bender/internal/logger"
)

const component = "ImageLoader"

// AssetLoadError reports a failed fetch or decode of the source image.
type AssetLoadError struct {
	Source string
	Err    error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading image %q: %v", e.Source, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// SourceImage is the decoded bitmap plus the probe metadata the UI shows.
type SourceImage struct {
	Image    image.Image
	Width    int
	Height   int
	Channels int
	Format   string
}

// Loader decodes source bitmaps. It decodes twice on purpose: the standard
// library for the Go image the texture upload consumes, and OpenCV for the
// channel probe, mirroring how the rest of the OpenCV-based tooling sees the
// file.
type Loader struct {
	log logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop{}
	}
	return &Loader{log: log}
}

// LoadFromPath reads and decodes the bitmap at path.
func (l *Loader) LoadFromPath(path string) (*SourceImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetLoadError{Source: path, Err: err}
	}
	return l.load(data, path, strings.ToLower(filepath.Ext(path)))
}

// LoadFromReader decodes a bitmap opened through the Fyne file dialog.
func (l *Loader) LoadFromReader(reader fyne.URIReadCloser) (*SourceImage, error) {
	defer reader.Close()

	uri := reader.URI()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &AssetLoadError{Source: uri.Path(), Err: fmt.Errorf("reading image data: %w", err)}
	}
	return l.load(data, uri.Path(), strings.ToLower(uri.Extension()))
}

// LoadFromBytes decodes an in-memory bitmap. ext is the source file extension
// used as a format hint, may be empty.
func (l *Loader) LoadFromBytes(data []byte, ext string) (*SourceImage, error) {
	return l.load(data, "(memory)", strings.ToLower(ext))
}

func (l *Loader) load(data []byte, source, ext string) (*SourceImage, error) {
	start := time.Now()

	img, stdFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &AssetLoadError{Source: source, Err: fmt.Errorf("decoding image: %w", err)}
	}

	channels := 3
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		l.log.Warning(component, "opencv probe failed, assuming 3 channels", map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	} else {
		channels = mat.Channels()
		mat.Close()
	}

	bounds := img.Bounds()
	src := &SourceImage{
		Image:    img,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: channels,
		Format:   actualFormat(ext, stdFormat),
	}

	l.log.Info(component, "image loaded", map[string]interface{}{
		"source":      source,
		"width":       src.Width,
		"height":      src.Height,
		"channels":    src.Channels,
		"format":      src.Format,
		"size_bytes":  len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return src, nil
}

func actualFormat(ext, stdFormat string) string {
	switch strings.TrimPrefix(ext, ".") {
	case "jpg", "jpeg":
		return "jpeg"
	case "png":
		return "png"
	case "gif":
		return "gif"
	case "bmp":
		return "bmp"
	case "webp":
		return "webp"
	default:
		if stdFormat != "" {
			return stdFormat
		}
		return "unknown"
	}
}
