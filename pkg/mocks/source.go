package mocks

import (
	"fmt"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
)

// SourceReader is a mock implementation of ports.SourceReader. Frame n has
// every luma sample set to n mod 256 and every chroma sample set to 128.
type SourceReader struct {
	format ports.SourceFormat
	frames int
	alloc  *picture.Allocator

	ReadFrameFunc func(index int) (*picture.Picture, error)

	// Reads records the requested frame indices.
	Reads  []int
	Closed bool
}

// NewSourceReader creates a mock source of the given size and frame count.
func NewSourceReader(alloc *picture.Allocator, width, height, frames int) *SourceReader {
	return &SourceReader{
		format: ports.SourceFormat{
			Width:        width,
			Height:       height,
			ChromaWidth:  width / 2,
			ChromaHeight: height / 2,
			BitDepth:     8,
		},
		frames: frames,
		alloc:  alloc,
	}
}

func (m *SourceReader) Format() ports.SourceFormat {
	return m.format
}

func (m *SourceReader) ReadFrame(index int) (*picture.Picture, error) {
	m.Reads = append(m.Reads, index)
	if m.ReadFrameFunc != nil {
		return m.ReadFrameFunc(index)
	}
	if index < 0 || index >= m.frames {
		return nil, fmt.Errorf("frame %d out of range", index)
	}
	f := m.format
	p, err := m.alloc.Alloc(picture.Frame, f.Width, f.Height, f.ChromaWidth, f.ChromaHeight)
	if err != nil {
		return nil, err
	}
	p.FrameIndex = index
	p.Fill(uint16(index%256), 128)
	return p, nil
}

func (m *SourceReader) Close() error {
	m.Closed = true
	return nil
}

var _ ports.SourceReader = (*SourceReader)(nil)

// ParameterSets is a mock implementation of ports.ParameterSets.
type ParameterSets struct {
	Params ports.SequenceParameters
}

func (m *ParameterSets) Sequence() ports.SequenceParameters {
	return m.Params
}

var _ ports.ParameterSets = (*ParameterSets)(nil)
