package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imageLabel  *widget.Label
	renderLabel *widget.Label
}

func NewStatusBar() *StatusBar {
	statusLabel := widget.NewLabel("Ready")
	imageLabel := widget.NewLabel("No image")
	renderLabel := widget.NewLabel("Render: --")

	metricsContainer := container.NewHBox(
		imageLabel,
		widget.NewSeparator(),
		renderLabel,
	)

	mainContainer := container.NewBorder(
		nil, nil,
		statusLabel,
		metricsContainer,
	)

	return &StatusBar{
		container:   mainContainer,
		statusLabel: statusLabel,
		imageLabel:  imageLabel,
		renderLabel: renderLabel,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) SetImageInfo(width, height int, format string) {
	sb.imageLabel.SetText(fmt.Sprintf("%dx%d %s", width, height, format))
}

func (sb *StatusBar) SetRenderTime(d time.Duration) {
	sb.renderLabel.SetText(fmt.Sprintf("Render: %.1f ms", float64(d.Microseconds())/1000))
}
