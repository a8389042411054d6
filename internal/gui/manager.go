package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"bayer-bender/internal/gui/components"
	guisync "bayer-bender/internal/gui/sync"
	"bayer-bender/internal/logger"
	"bayer-bender/internal/params"
	"bayer-bender/internal/pipeline"
	"bayer-bender/internal/render"
	"bayer-bender/internal/tonemap"
)

// Manager builds the window content and owns the widgets, the coordinator
// and the controller for one session.
type Manager struct {
	window     fyne.Window
	controller *Controller

	adjustments  *components.AdjustmentPanel
	matrixEditor *components.MatrixEditor
	display      *components.ImageDisplay
	status       *components.StatusBar
}

// NewManager wires widgets, store and session together and installs the
// layout into window.
func NewManager(window fyne.Window, store *params.Store, session *render.Session, source *pipeline.SourceImage, log logger.Logger) *Manager {
	adjustments := components.NewAdjustmentPanel()
	matrixEditor := components.NewMatrixEditor()
	display := components.NewImageDisplay()
	status := components.NewStatusBar()

	coord := guisync.NewCoordinator()
	coord.SetImageDisplay(display)
	coord.SetStatusBar(status)
	coord.SetMatrixEditor(matrixEditor)

	controller := NewController(store, session, coord, log)

	adjustments.SetParameterChangeHandler(controller.HandleParameterChange)
	adjustments.SetStagesChangeHandler(controller.HandleStagesChange)
	adjustments.SetCompareChangeHandler(func(enabled bool) {
		display.ShowDiffusion(enabled)
		controller.HandleCompareChange(enabled)
	})
	matrixEditor.SetCellChangeHandler(controller.HandleMatrixCellChange)
	matrixEditor.SetCellStepHandler(controller.HandleMatrixCellStep)
	matrixEditor.SetSizeChangeHandler(func(size int) {
		if m, err := controller.HandleMatrixResize(size); err == nil {
			matrixEditor.Rebuild(m)
		}
	})

	// Seed widgets from the current state without firing edit handlers.
	snapshot := store.Snapshot()
	adjustments.SetValues(snapshot, false)
	stages := session.Stages()
	adjustments.SetStages(stages.Has(tonemap.StageSaturation), stages.Has(tonemap.StageDither))
	matrixEditor.Rebuild(snapshot.Matrix)
	display.SetOriginalImage(source.Image)
	status.SetImageInfo(source.Width, source.Height, source.Format)

	controls := container.NewVScroll(container.NewVBox(
		adjustments.GetContainer(),
		matrixEditor.GetContainer(),
	))

	window.SetContent(container.NewBorder(
		nil,
		status.GetContainer(),
		controls,
		nil,
		display.GetContainer(),
	))

	return &Manager{
		window:       window,
		controller:   controller,
		adjustments:  adjustments,
		matrixEditor: matrixEditor,
		display:      display,
		status:       status,
	}
}

// Start launches the controller's background loops.
func (m *Manager) Start() {
	m.controller.Start()
}

// Shutdown stops the background loops.
func (m *Manager) Shutdown() {
	m.controller.Shutdown()
}
