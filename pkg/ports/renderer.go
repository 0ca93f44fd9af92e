package ports

import (
	"image"

	"github.com/user/picseq/pkg/picture"
)

// PreviewRenderer draws annotated thumbnails of reconstructed pictures.
type PreviewRenderer interface {
	// Render draws the luma plane of p scaled to width, with label below it.
	Render(p *picture.Picture, label string, width int) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
