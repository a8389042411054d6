package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"sync"
	"time"

	"bayer-bender/internal/logger"
	"bayer-bender/internal/tonemap"
)

const softwareComponent = "SoftwareDevice"

// softwareDevice evaluates the fragment function on the CPU, sharding output
// rows across a worker pool. It is the reference backend: same math a GPU
// fragment shader would run, one invocation per pixel.
type softwareDevice struct {
	workers int
	log     logger.Logger
	closed  bool
	mu      sync.Mutex
}

func newSoftwareDevice(opts Options) *softwareDevice {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &softwareDevice{workers: workers, log: opts.Logger}
}

func (d *softwareDevice) Name() string { return BackendSoftware }

// softwareTexture stores the source as pre-normalized float32 RGB triples so
// sampling in the hot loop is a slice read, not a color conversion.
type softwareTexture struct {
	bounds image.Rectangle
	pix    []float32
}

func (d *softwareDevice) CreateTexture(img image.Image) (Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("nil source image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty source image %v", bounds)
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	tex := &softwareTexture{
		bounds: rgba.Bounds(),
		pix:    make([]float32, 3*bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			o := rgba.PixOffset(x, y)
			p := 3 * (y*bounds.Dx() + x)
			tex.pix[p] = float32(rgba.Pix[o]) / 255
			tex.pix[p+1] = float32(rgba.Pix[o+1]) / 255
			tex.pix[p+2] = float32(rgba.Pix[o+2]) / 255
		}
	}

	d.log.Debug(softwareComponent, "texture created", map[string]interface{}{
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	})
	return tex, nil
}

func (t *softwareTexture) Bounds() image.Rectangle { return t.bounds }

func (t *softwareTexture) Sample(x, y int) tonemap.RGB {
	p := 3 * (y*t.bounds.Dx() + x)
	return tonemap.RGB{R: t.pix[p], G: t.pix[p+1], B: t.pix[p+2]}
}

func (t *softwareTexture) Release() {
	t.pix = nil
}

// Submit runs the fragment function for every output pixel. The uniform block
// is decoded into one snapshot up front, so mid-frame parameter writes affect
// only the next submit.
func (d *softwareDevice) Submit(ctx context.Context, job Job) (*image.NRGBA, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("device closed")
	}
	d.mu.Unlock()

	tex, ok := job.Texture.(*softwareTexture)
	if !ok {
		return nil, fmt.Errorf("texture was not created by this device")
	}
	if job.Uniforms == nil {
		return nil, fmt.Errorf("job has no uniform block")
	}
	snapshot := job.Uniforms.Snapshot(job.Stages)
	if snapshot.Shadows <= 0 {
		return nil, fmt.Errorf("shadows parameter %g must be positive", snapshot.Shadows)
	}
	if snapshot.MatrixWidth < 1 || snapshot.MatrixHeight < 1 {
		return nil, fmt.Errorf("invalid matrix dimensions %dx%d", snapshot.MatrixWidth, snapshot.MatrixHeight)
	}

	start := time.Now()
	width, height := tex.bounds.Dx(), tex.bounds.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				renderRow(tex, out, y, width, snapshot)
			}
		}()
	}

	var submitErr error
feed:
	for y := 0; y < height; y++ {
		select {
		case rows <- y:
		case <-ctx.Done():
			submitErr = ctx.Err()
			break feed
		}
	}
	close(rows)
	wg.Wait()

	if submitErr != nil {
		return nil, submitErr
	}
	d.log.Debug(softwareComponent, "frame rendered", map[string]interface{}{
		"width":       width,
		"height":      height,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}

func renderRow(tex *softwareTexture, out *image.NRGBA, y, width int, p tonemap.Params) {
	for x := 0; x < width; x++ {
		c := tonemap.Compute(tex.Sample(x, y), x, y, p)
		o := out.PixOffset(x, y)
		out.Pix[o] = encodeChannel(c.R)
		out.Pix[o+1] = encodeChannel(c.G)
		out.Pix[o+2] = encodeChannel(c.B)
		out.Pix[o+3] = 0xFF
	}
}

func encodeChannel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}

func (d *softwareDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
