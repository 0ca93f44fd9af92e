package mocks

import (
	"context"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
)

// PictureCoder is a mock implementation of ports.PictureCoder. By default it
// returns a copy of the source, split into fields for field coding.
type PictureCoder struct {
	CodeFunc func(ctx context.Context, req ports.PictureRequest) (ports.CodedPicture, error)

	// Requests records every request for verification.
	Requests []ports.PictureRequest

	alloc *picture.Allocator
}

// NewPictureCoder creates a mock coder allocating reconstructions from alloc.
func NewPictureCoder(alloc *picture.Allocator) *PictureCoder {
	return &PictureCoder{alloc: alloc}
}

func (m *PictureCoder) Code(ctx context.Context, req ports.PictureRequest) (ports.CodedPicture, error) {
	m.Requests = append(m.Requests, req)
	if m.CodeFunc != nil {
		return m.CodeFunc(ctx, req)
	}

	src := req.Source
	if req.FieldCoding {
		top, bottom, err := m.alloc.Split(src)
		if err != nil {
			return ports.CodedPicture{}, err
		}
		return ports.CodedPicture{Pictures: []*picture.Picture{top, bottom}, Bytes: 1}, nil
	}

	frame, err := m.alloc.Alloc(picture.Frame, src.Width(), src.Height(), src.ChromaWidth(), src.ChromaHeight())
	if err != nil {
		return ports.CodedPicture{}, err
	}
	frame.FrameIndex = src.FrameIndex
	copy(frame.Luma.Samples, src.Luma.Samples)
	copy(frame.Chroma[0].Samples, src.Chroma[0].Samples)
	copy(frame.Chroma[1].Samples, src.Chroma[1].Samples)
	return ports.CodedPicture{Pictures: []*picture.Picture{frame}, Bytes: 1}, nil
}

// SliceTypes returns the slice type of every recorded request, as strings.
func (m *PictureCoder) SliceTypes() []string {
	types := make([]string, 0, len(m.Requests))
	for _, r := range m.Requests {
		types = append(types, r.Decision.SliceType.String())
	}
	return types
}

var _ ports.PictureCoder = (*PictureCoder)(nil)
