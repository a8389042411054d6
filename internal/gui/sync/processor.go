package sync

import (
	"image"
	"time"

	"bayer-bender/internal/gui/components"
)

type ImageDisplayHandler interface {
	SetOriginalImage(image.Image)
	SetPreviewImage(image.Image)
	SetDiffusionImage(image.Image)
}

type StatusBarHandler interface {
	SetStatus(string)
	SetRenderTime(time.Duration)
}

type MatrixEditorHandler interface {
	UpdateCell(row, col int, value float32)
}

type UpdateProcessor struct {
	imageDisplay ImageDisplayHandler
	statusBar    StatusBarHandler
	matrixEditor MatrixEditorHandler
}

func NewUpdateProcessor() *UpdateProcessor {
	return &UpdateProcessor{}
}

func (p *UpdateProcessor) SetImageDisplay(display ImageDisplayHandler) {
	p.imageDisplay = display
}

func (p *UpdateProcessor) SetStatusBar(statusBar StatusBarHandler) {
	p.statusBar = statusBar
}

func (p *UpdateProcessor) SetMatrixEditor(editor MatrixEditorHandler) {
	p.matrixEditor = editor
}

func (p *UpdateProcessor) ProcessUpdate(update *Update) {
	switch update.Type {
	case UpdateTypeImageDisplay:
		if p.imageDisplay == nil {
			return
		}
		if data, ok := update.Data.(*components.ImageDisplayUpdate); ok {
			switch data.Type {
			case components.ImageTypeOriginal:
				p.imageDisplay.SetOriginalImage(data.Image)
			case components.ImageTypePreview:
				p.imageDisplay.SetPreviewImage(data.Image)
			case components.ImageTypeDiffusion:
				p.imageDisplay.SetDiffusionImage(data.Image)
			}
		}

	case UpdateTypeStatus:
		if p.statusBar == nil {
			return
		}
		if data, ok := update.Data.(*components.StatusUpdate); ok {
			p.statusBar.SetStatus(data.Status)
		}

	case UpdateTypeRenderTime:
		if p.statusBar == nil {
			return
		}
		if data, ok := update.Data.(*components.RenderTimeUpdate); ok {
			p.statusBar.SetRenderTime(data.Duration)
		}

	case UpdateTypeMatrixCell:
		if p.matrixEditor == nil {
			return
		}
		if data, ok := update.Data.(*components.MatrixCellUpdate); ok {
			p.matrixEditor.UpdateCell(data.Row, data.Col, data.Value)
		}
	}
}
