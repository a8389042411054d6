package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	ScrollViewportWidth  = 500
	ScrollViewportHeight = 400

	// Images wider or taller than this are downscaled for display; the render
	// itself always runs at full resolution.
	MaxPaneDimension = 1024
)

// ImageDisplay shows the original, the live preview, and the optional
// error-diffusion comparison pane side by side.
type ImageDisplay struct {
	container          *fyne.Container
	originalImage      *canvas.Image
	previewImage       *canvas.Image
	diffusionImage     *canvas.Image
	diffusionContainer *fyne.Container
	scrollContainer    *container.Scroll
}

func NewImageDisplay() *ImageDisplay {
	originalImage := canvas.NewImageFromImage(nil)
	originalImage.FillMode = canvas.ImageFillOriginal

	previewImage := canvas.NewImageFromImage(nil)
	previewImage.FillMode = canvas.ImageFillOriginal

	diffusionImage := canvas.NewImageFromImage(nil)
	diffusionImage.FillMode = canvas.ImageFillOriginal

	originalContainer := container.NewVBox(
		widget.NewRichTextFromMarkdown("**Original**"),
		originalImage,
	)
	previewContainer := container.NewVBox(
		widget.NewRichTextFromMarkdown("**Preview**"),
		previewImage,
	)
	diffusionContainer := container.NewVBox(
		widget.NewRichTextFromMarkdown("**Error Diffusion**"),
		diffusionImage,
	)
	diffusionContainer.Hide()

	imageLayout := container.New(
		layout.NewHBoxLayout(),
		originalContainer,
		previewContainer,
		diffusionContainer,
	)

	scrollContainer := container.NewScroll(imageLayout)
	scrollContainer.SetMinSize(fyne.NewSize(ScrollViewportWidth, ScrollViewportHeight))

	return &ImageDisplay{
		container:          container.NewBorder(nil, nil, nil, nil, scrollContainer),
		originalImage:      originalImage,
		previewImage:       previewImage,
		diffusionImage:     diffusionImage,
		diffusionContainer: diffusionContainer,
		scrollContainer:    scrollContainer,
	}
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}

func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	setPane(id.originalImage, img)
}

func (id *ImageDisplay) SetPreviewImage(img image.Image) {
	setPane(id.previewImage, img)
}

func (id *ImageDisplay) SetDiffusionImage(img image.Image) {
	setPane(id.diffusionImage, img)
}

// ShowDiffusion toggles the comparison pane.
func (id *ImageDisplay) ShowDiffusion(show bool) {
	if show {
		id.diffusionContainer.Show()
	} else {
		id.diffusionContainer.Hide()
	}
	id.container.Refresh()
}

func setPane(pane *canvas.Image, img image.Image) {
	if img == nil {
		return
	}
	img = scaleForDisplay(img)
	pane.Image = img

	bounds := img.Bounds()
	pane.SetMinSize(fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy())))
	pane.Refresh()
}

// scaleForDisplay downsamples oversized frames so three panes stay scrollable
// rather than monstrous. Catmull-Rom keeps dither patterns legible enough at
// display scale.
func scaleForDisplay(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= MaxPaneDimension && h <= MaxPaneDimension {
		return img
	}

	scale := float64(MaxPaneDimension) / float64(w)
	if h > w {
		scale = float64(MaxPaneDimension) / float64(h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
