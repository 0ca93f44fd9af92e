package picture

import "fmt"

// Allocator creates and releases pictures and keeps count of live ones.
// It is not safe for concurrent use; pictures are produced and consumed
// by a single encoding loop.
type Allocator struct {
	lumaBitDepth   int
	chromaBitDepth int

	allocated int
	released  int
}

// NewAllocator creates an Allocator for the given sample bit depths.
func NewAllocator(lumaBitDepth, chromaBitDepth int) *Allocator {
	return &Allocator{
		lumaBitDepth:   lumaBitDepth,
		chromaBitDepth: chromaBitDepth,
	}
}

// Alloc creates a picture with uninitialized (zero) samples.
func (a *Allocator) Alloc(structure Structure, width, height, chromaWidth, chromaHeight int) (*Picture, error) {
	luma, err := NewPlane(width, height)
	if err != nil {
		return nil, fmt.Errorf("alloc %s luma: %w", structure, err)
	}
	cb, err := NewPlane(chromaWidth, chromaHeight)
	if err != nil {
		return nil, fmt.Errorf("alloc %s chroma: %w", structure, err)
	}
	cr, err := NewPlane(chromaWidth, chromaHeight)
	if err != nil {
		return nil, fmt.Errorf("alloc %s chroma: %w", structure, err)
	}

	a.allocated++
	return &Picture{
		Structure: structure,
		Luma:      luma,
		Chroma:    [2]Plane{cb, cr},
	}, nil
}

// AllocNeutral creates a picture filled with the mid-range sample value of
// each component.
func (a *Allocator) AllocNeutral(structure Structure, width, height, chromaWidth, chromaHeight int) (*Picture, error) {
	p, err := a.Alloc(structure, width, height, chromaWidth, chromaHeight)
	if err != nil {
		return nil, err
	}
	p.Fill(a.NeutralLuma(), a.NeutralChroma())
	return p, nil
}

// NeutralLuma returns 1 << (lumaBitDepth - 1).
func (a *Allocator) NeutralLuma() uint16 {
	return neutral(a.lumaBitDepth)
}

// NeutralChroma returns 1 << (chromaBitDepth - 1).
func (a *Allocator) NeutralChroma() uint16 {
	return neutral(a.chromaBitDepth)
}

// Adopt registers a picture created elsewhere so that its release is tracked.
func (a *Allocator) Adopt(p *Picture) *Picture {
	a.allocated++
	return p
}

// Release returns a picture to the allocator. Releasing nil is a no-op.
func (a *Allocator) Release(p *Picture) error {
	if p == nil {
		return nil
	}
	if p.released {
		return fmt.Errorf("release %s picture %d: %w", p.Structure, p.FrameIndex, ErrDoubleRelease)
	}
	p.released = true
	p.Luma.Samples = nil
	p.Chroma[0].Samples = nil
	p.Chroma[1].Samples = nil
	a.released++
	return nil
}

// Live returns the number of pictures allocated or adopted but not yet released.
func (a *Allocator) Live() int {
	return a.allocated - a.released
}

func neutral(bitDepth int) uint16 {
	if bitDepth <= 0 {
		bitDepth = 8
	}
	return uint16(1) << (bitDepth - 1)
}
