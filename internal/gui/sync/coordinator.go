// Package sync marshals asynchronous render results back onto the Fyne main
// thread. Widget refreshes must not run on the render goroutine; the
// coordinator pumps updates through a buffered channel and applies them with
// fyne.Do.
package sync

import (
	"fyne.io/fyne/v2"
)

type UpdateType int

const (
	UpdateTypeImageDisplay UpdateType = iota
	UpdateTypeStatus
	UpdateTypeRenderTime
	UpdateTypeMatrixCell
)

type Update struct {
	Type UpdateType
	Data interface{}
}

type Coordinator struct {
	updateChan chan *Update
	done       chan struct{}
	processor  *UpdateProcessor
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		updateChan: make(chan *Update, 100),
		done:       make(chan struct{}),
		processor:  NewUpdateProcessor(),
	}
}

// ScheduleUpdate enqueues an update without blocking; when the queue is full
// the update is dropped, a later one will repaint anyway.
func (c *Coordinator) ScheduleUpdate(update *Update) {
	select {
	case c.updateChan <- update:
	default:
	}
}

func (c *Coordinator) Run() {
	for {
		select {
		case update := <-c.updateChan:
			fyne.Do(func() {
				c.processor.ProcessUpdate(update)
			})
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) Stop() {
	close(c.done)
}

func (c *Coordinator) SetImageDisplay(display ImageDisplayHandler) {
	c.processor.SetImageDisplay(display)
}

func (c *Coordinator) SetStatusBar(statusBar StatusBarHandler) {
	c.processor.SetStatusBar(statusBar)
}

func (c *Coordinator) SetMatrixEditor(editor MatrixEditorHandler) {
	c.processor.SetMatrixEditor(editor)
}
