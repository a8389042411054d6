package components

import (
	"image"
	"time"
)

type ImageType int

const (
	ImageTypeOriginal ImageType = iota
	ImageTypePreview
	ImageTypeDiffusion
)

type ImageDisplayUpdate struct {
	Type  ImageType
	Image image.Image
}

type StatusUpdate struct {
	Status string
}

type RenderTimeUpdate struct {
	Duration time.Duration
}

type MatrixCellUpdate struct {
	Row   int
	Col   int
	Value float32
}
