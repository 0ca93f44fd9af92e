// Package picture provides storable pictures: reconstructed sample planes
// tagged with their frame/field structure.
package picture

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceExhausted is returned when a picture buffer cannot be allocated.
	ErrResourceExhausted = errors.New("picture: resource exhausted")

	// ErrDoubleRelease is returned when a picture is released twice.
	ErrDoubleRelease = errors.New("picture: picture released twice")

	// ErrFieldMismatch is returned when two fields cannot be combined into a frame.
	ErrFieldMismatch = errors.New("picture: field dimensions do not match")
)

// maxPlaneSamples bounds a single plane allocation (16384x16384 samples).
const maxPlaneSamples = 1 << 28

// Structure tags a picture as a frame or one of the two fields.
type Structure int

const (
	Frame Structure = iota
	TopField
	BottomField
)

// String returns the string representation of the structure.
func (s Structure) String() string {
	switch s {
	case Frame:
		return "frame"
	case TopField:
		return "top"
	case BottomField:
		return "bottom"
	default:
		return "unknown"
	}
}

// IsField reports whether the structure is one of the two field parities.
func (s Structure) IsField() bool {
	return s == TopField || s == BottomField
}

// Plane is a row-major grid of samples.
type Plane struct {
	Width   int
	Height  int
	Samples []uint16
}

// NewPlane allocates a plane of the given size.
func NewPlane(width, height int) (Plane, error) {
	if width < 0 || height < 0 {
		return Plane{}, fmt.Errorf("%w: plane %dx%d", ErrResourceExhausted, width, height)
	}
	if width > 0 && height > maxPlaneSamples/width {
		return Plane{}, fmt.Errorf("%w: plane %dx%d", ErrResourceExhausted, width, height)
	}
	return Plane{
		Width:   width,
		Height:  height,
		Samples: make([]uint16, width*height),
	}, nil
}

// Row returns row y of the plane.
func (p Plane) Row(y int) []uint16 {
	return p.Samples[y*p.Width : (y+1)*p.Width]
}

// At returns the sample at (x, y).
func (p Plane) At(x, y int) uint16 {
	return p.Samples[y*p.Width+x]
}

// Set stores v at (x, y).
func (p Plane) Set(x, y int, v uint16) {
	p.Samples[y*p.Width+x] = v
}

// Fill sets every sample of the plane to v.
func (p Plane) Fill(v uint16) {
	for i := range p.Samples {
		p.Samples[i] = v
	}
}

// Picture is a reconstructed picture ready for output.
type Picture struct {
	Structure Structure

	// Luma holds the Y plane; Chroma holds U (Cb) and V (Cr).
	Luma   Plane
	Chroma [2]Plane

	// NonExisting marks a placeholder picture that produces no output.
	NonExisting bool

	// FrameIndex is the coding index this picture was produced for (informational).
	FrameIndex int

	released bool
}

// Width returns the luma width.
func (p *Picture) Width() int { return p.Luma.Width }

// Height returns the luma height.
func (p *Picture) Height() int { return p.Luma.Height }

// ChromaWidth returns the chroma plane width.
func (p *Picture) ChromaWidth() int { return p.Chroma[0].Width }

// ChromaHeight returns the chroma plane height.
func (p *Picture) ChromaHeight() int { return p.Chroma[0].Height }

// Released reports whether the picture has been returned to its allocator.
func (p *Picture) Released() bool { return p.released }

// Fill sets every luma sample to luma and every chroma sample to chroma.
func (p *Picture) Fill(luma, chroma uint16) {
	p.Luma.Fill(luma)
	p.Chroma[0].Fill(chroma)
	p.Chroma[1].Fill(chroma)
}
