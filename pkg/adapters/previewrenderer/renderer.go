// Package previewrenderer draws labelled thumbnails of reconstructed pictures
// using the gg library.
package previewrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
)

// labelHeight is the height of the caption strip below the thumbnail.
const labelHeight = 16

var (
	background = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	textColor  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Renderer implements ports.PreviewRenderer.
type Renderer struct {
	bitDepth int
}

// New creates a Renderer for luma samples of the given bit depth.
func New(bitDepth int) *Renderer {
	if bitDepth < 8 {
		bitDepth = 8
	}
	return &Renderer{bitDepth: bitDepth}
}

// Render draws the luma plane of p scaled to width, with label in a strip
// below it.
func (r *Renderer) Render(p *picture.Picture, label string, width int) (image.Image, error) {
	if p.Width() == 0 || p.Height() == 0 {
		return nil, fmt.Errorf("render picture %d: empty luma plane", p.FrameIndex)
	}
	if width <= 0 {
		width = p.Width()
	}
	height := max(1, p.Height()*width/p.Width())

	luma := r.lumaImage(p)
	thumb := image.NewGray(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), luma, luma.Bounds(), draw.Src, nil)

	dc := gg.NewContext(width, height+labelHeight)
	dc.SetColor(background)
	dc.Clear()
	dc.DrawImage(thumb, 0, 0)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(label, 4, float64(height)+labelHeight/2, 0, 0.5)

	return dc.Image(), nil
}

func (r *Renderer) lumaImage(p *picture.Picture) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width(), p.Height()))
	shift := r.bitDepth - 8
	for y := 0; y < p.Height(); y++ {
		row := p.Luma.Row(y)
		off := y * img.Stride
		for x, v := range row {
			img.Pix[off+x] = uint8(min(v>>shift, 255))
		}
	}
	return img
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// Ensure Renderer implements ports.PreviewRenderer
var _ ports.PreviewRenderer = (*Renderer)(nil)
