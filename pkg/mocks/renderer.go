package mocks

import (
	"image"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
)

// PreviewRenderer is a mock implementation of ports.PreviewRenderer.
type PreviewRenderer struct {
	RenderFunc      func(p *picture.Picture, label string, width int) (image.Image, error)
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	// Labels records the label of every rendered picture.
	Labels []string
}

func (m *PreviewRenderer) Render(p *picture.Picture, label string, width int) (image.Image, error) {
	m.Labels = append(m.Labels, label)
	if m.RenderFunc != nil {
		return m.RenderFunc(p, label, width)
	}
	return image.NewRGBA(image.Rect(0, 0, width, width)), nil
}

func (m *PreviewRenderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

var _ ports.PreviewRenderer = (*PreviewRenderer)(nil)
