// Package loopback provides a ports.PictureCoder that reconstructs each
// picture from its source without real compression. Samples are quantized
// by dropping low bits so that reconstructions differ from the source the
// way a lossy coder's would.
package loopback

import (
	"context"
	"fmt"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/sequence"
)

// Options configures the loopback coder.
type Options struct {
	// QuantShift is the number of low sample bits discarded.
	QuantShift int
	BitDepth   int
}

// Coder implements ports.PictureCoder.
type Coder struct {
	opts  Options
	alloc *picture.Allocator
}

// New creates a loopback coder allocating reconstructions from alloc.
func New(opts Options, alloc *picture.Allocator) *Coder {
	if opts.BitDepth <= 0 {
		opts.BitDepth = 8
	}
	return &Coder{opts: opts, alloc: alloc}
}

// Code returns the quantized source as one frame, or as a top and a bottom
// field when field coding is requested.
func (c *Coder) Code(ctx context.Context, req ports.PictureRequest) (ports.CodedPicture, error) {
	src := req.Source
	frame, err := c.alloc.Alloc(picture.Frame, src.Width(), src.Height(), src.ChromaWidth(), src.ChromaHeight())
	if err != nil {
		return ports.CodedPicture{}, fmt.Errorf("loopback reconstruction: %w", err)
	}
	frame.FrameIndex = req.FrameIndex

	c.quantize(frame.Luma, src.Luma)
	c.quantize(frame.Chroma[0], src.Chroma[0])
	c.quantize(frame.Chroma[1], src.Chroma[1])

	bytes := c.estimateBytes(src, req.Decision.SliceType)

	if !req.FieldCoding {
		return ports.CodedPicture{Pictures: []*picture.Picture{frame}, Bytes: bytes}, nil
	}

	top, bottom, err := c.alloc.Split(frame)
	if relErr := c.alloc.Release(frame); relErr != nil && err == nil {
		err = relErr
	}
	if err != nil {
		return ports.CodedPicture{}, fmt.Errorf("loopback fields: %w", err)
	}
	return ports.CodedPicture{Pictures: []*picture.Picture{top, bottom}, Bytes: bytes}, nil
}

func (c *Coder) quantize(dst, src picture.Plane) {
	shift := c.opts.QuantShift
	if shift <= 0 {
		copy(dst.Samples, src.Samples)
		return
	}
	half := uint16(1) << (shift - 1)
	for i, v := range src.Samples {
		dst.Samples[i] = (v>>shift)<<shift | half
	}
}

// estimateBytes returns a nominal coded size: a fixed fraction of the raw
// picture size depending on the slice type.
func (c *Coder) estimateBytes(src *picture.Picture, t sequence.SliceType) int {
	samples := len(src.Luma.Samples) + len(src.Chroma[0].Samples) + len(src.Chroma[1].Samples)
	raw := (samples*c.opts.BitDepth + 7) / 8

	switch t {
	case sequence.SliceI:
		return max(1, raw/4)
	case sequence.SliceB:
		return max(1, raw/32)
	default:
		return max(1, raw/16)
	}
}

var _ ports.PictureCoder = (*Coder)(nil)
