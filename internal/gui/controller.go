// Package gui assembles the Fyne interface and wires user edits into the
// parameter store. The control flow is fixed: an edit mutates exactly one
// field through the store, the store synchronizes the uniform projection
// before returning, and only then is a redraw requested.
package gui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bayer-bender/internal/dither"
	"bayer-bender/internal/gui/components"
	guisync "bayer-bender/internal/gui/sync"
	"bayer-bender/internal/logger"
	"bayer-bender/internal/params"
	"bayer-bender/internal/render"
	"bayer-bender/internal/tonemap"
)

const controllerComponent = "Controller"

// Controller connects the widgets, the parameter store and the render
// session. Redraw requests coalesce through a one-slot channel: a request
// issued while a frame is in flight replaces any still-pending request, and
// the superseded frame is simply overwritten on screen.
type Controller struct {
	store   *params.Store
	session *render.Session
	coord   *guisync.Coordinator
	log     logger.Logger

	redraw chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	compare bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewController(store *params.Store, session *render.Session, coord *guisync.Coordinator, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:   store,
		session: session,
		coord:   coord,
		log:     log,
		redraw:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	store.OnChange(c.RequestRedraw)
	return c
}

// Start launches the update pump and the render loop, then requests the
// first frame.
func (c *Controller) Start() {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.coord.Run()
	}()
	go func() {
		defer c.wg.Done()
		c.renderLoop()
	}()
	c.RequestRedraw()
}

// Shutdown stops the render loop and the update pump.
func (c *Controller) Shutdown() {
	c.cancel()
	close(c.done)
	c.coord.Stop()
	c.wg.Wait()
	c.log.Info(controllerComponent, "controller stopped", nil)
}

// RequestRedraw schedules a frame. Non-blocking; pending requests coalesce.
func (c *Controller) RequestRedraw() {
	select {
	case c.redraw <- struct{}{}:
	default:
	}
}

func (c *Controller) renderLoop() {
	for {
		select {
		case <-c.done:
			return
		case <-c.redraw:
		}

		start := time.Now()
		frame, err := c.session.Render(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.log.Error(controllerComponent, err, nil)
			c.setStatus(fmt.Sprintf("Render failed: %v", err))
			continue
		}

		c.coord.ScheduleUpdate(&guisync.Update{
			Type: guisync.UpdateTypeImageDisplay,
			Data: &components.ImageDisplayUpdate{Type: components.ImageTypePreview, Image: frame},
		})
		c.coord.ScheduleUpdate(&guisync.Update{
			Type: guisync.UpdateTypeRenderTime,
			Data: &components.RenderTimeUpdate{Duration: time.Since(start)},
		})

		if c.compareEnabled() {
			diffused := dither.FloydSteinberg(frame)
			c.coord.ScheduleUpdate(&guisync.Update{
				Type: guisync.UpdateTypeImageDisplay,
				Data: &components.ImageDisplayUpdate{Type: components.ImageTypeDiffusion, Image: diffused},
			})
		}
	}
}

// HandleParameterChange applies one scalar edit. Rejected edits leave the
// prior state intact and surface the reason in the status bar.
func (c *Controller) HandleParameterChange(name params.FieldName, value float64) {
	if err := c.store.SetField(name, float32(value)); err != nil {
		c.log.Warning(controllerComponent, "parameter edit rejected", map[string]interface{}{
			"field": string(name),
			"value": value,
			"error": err.Error(),
		})
		c.setStatus(fmt.Sprintf("Rejected: %v", err))
		return
	}
	c.setStatus("Ready")
}

// HandleMatrixCellChange applies one typed-in cell edit.
func (c *Controller) HandleMatrixCellChange(row, col int, value float64) {
	if err := c.store.SetMatrixCell(row, col, float32(value)); err != nil {
		c.setStatus(fmt.Sprintf("Rejected: %v", err))
	}
}

// HandleMatrixCellStep applies one +/- stepper click and pushes the new value
// back to the grid entry.
func (c *Controller) HandleMatrixCellStep(row, col int, up bool) {
	snapshot := c.store.Snapshot()
	value, err := snapshot.Matrix.Cell(row, col)
	if err != nil {
		return
	}
	if up {
		value += dither.CellStep
		if value >= 1 {
			value = 1 - dither.CellStep
		}
	} else {
		value -= dither.CellStep
		if value < 0 {
			value = 0
		}
	}
	if err := c.store.SetMatrixCell(row, col, value); err != nil {
		c.setStatus(fmt.Sprintf("Rejected: %v", err))
		return
	}
	c.coord.ScheduleUpdate(&guisync.Update{
		Type: guisync.UpdateTypeMatrixCell,
		Data: &components.MatrixCellUpdate{Row: row, Col: col, Value: value},
	})
}

// HandleMatrixResize regenerates the Bayer matrix at the requested size.
// The caller rebuilds the grid from the returned matrix.
func (c *Controller) HandleMatrixResize(size int) (*dither.Matrix, error) {
	m, err := dither.Bayer(size)
	if err != nil {
		c.setStatus(fmt.Sprintf("Rejected: %v", err))
		return nil, err
	}
	if err := c.store.ReplaceMatrix(m); err != nil {
		c.setStatus(fmt.Sprintf("Rejected: %v", err))
		return nil, err
	}
	return m, nil
}

// HandleStagesChange reconfigures the optional stages and redraws.
func (c *Controller) HandleStagesChange(saturation, dithering bool) {
	var stages tonemap.Stages
	if saturation {
		stages |= tonemap.StageSaturation
	}
	if dithering {
		stages |= tonemap.StageDither
	}
	c.session.SetStages(stages)
	c.RequestRedraw()
}

// HandleCompareChange toggles the error-diffusion comparison pane.
func (c *Controller) HandleCompareChange(enabled bool) {
	c.mu.Lock()
	c.compare = enabled
	c.mu.Unlock()
	c.RequestRedraw()
}

func (c *Controller) compareEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compare
}

func (c *Controller) setStatus(status string) {
	c.coord.ScheduleUpdate(&guisync.Update{
		Type: guisync.UpdateTypeStatus,
		Data: &components.StatusUpdate{Status: status},
	})
}
