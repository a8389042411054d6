// Package render is the rendering-backend side of the demo: the uniform
// projection of the adjustment parameters, the device abstraction that
// executes the per-pixel computation over a source texture, and the session
// that owns device, texture and uniform handles with an explicit Close.
package render

import (
	"context"
	"fmt"
	"image"

	"bayer-bender/internal/logger"
	"bayer-bender/internal/tonemap"
)

// BackendSoftware is the bundled CPU fragment evaluator.
const BackendSoftware = "software"

// DeviceUnavailableError reports a requested backend that is not compiled in
// or cannot start. Fatal to the session: the caller must abort startup rather
// than render against undefined state.
type DeviceUnavailableError struct {
	Backend string
	Reason  string
}

func (e *DeviceUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("render backend %q unavailable", e.Backend)
	}
	return fmt.Sprintf("render backend %q unavailable: %s", e.Backend, e.Reason)
}

// Texture is an immutable sampled source image held by a device.
type Texture interface {
	Bounds() image.Rectangle
	Sample(x, y int) tonemap.RGB
	Release()
}

// Job is one draw submission: a texture, the uniform snapshot to read and
// the stage configuration for the fragment evaluator.
type Job struct {
	Texture  Texture
	Uniforms *UniformBlock
	Stages   tonemap.Stages
}

// Device executes per-pixel jobs. Implementations are massively parallel
// over pixels; each pixel reads only the shared uniform snapshot and its own
// texture sample.
type Device interface {
	Name() string
	CreateTexture(img image.Image) (Texture, error)
	Submit(ctx context.Context, job Job) (*image.NRGBA, error)
	Close() error
}

// Options configures device construction.
type Options struct {
	// Workers bounds the parallelism of CPU backends; 0 means one worker per
	// logical CPU.
	Workers int
	Logger  logger.Logger
}

// Open acquires the named backend. Unknown backends fail with
// DeviceUnavailableError.
func Open(backend string, opts Options) (Device, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop{}
	}
	switch backend {
	case BackendSoftware, "":
		return newSoftwareDevice(opts), nil
	default:
		return nil, &DeviceUnavailableError{Backend: backend, Reason: "not compiled in"}
	}
}
