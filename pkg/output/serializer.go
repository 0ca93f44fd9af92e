package output

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/user/picseq/pkg/picture"
)

// Crop holds frame cropping offsets. Sequence offsets are in crop units;
// effective offsets are in luma samples.
type Crop struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

func (c Crop) half() Crop {
	return Crop{Left: c.Left / 2, Right: c.Right / 2, Top: c.Top / 2, Bottom: c.Bottom / 2}
}

// Layout describes how reconstructed pictures are laid out on disk.
type Layout struct {
	// Cropping enables the sequence crop offsets in Crop.
	Cropping bool
	Crop     Crop
	// FrameMbsOnly is true for sequences that never use field coding.
	FrameMbsOnly bool

	SourceBitDepth int
	OutputBitDepth int

	// RGB selects the 4:4:4 RGB-as-chroma plane order.
	RGB bool
}

// SampleSize returns the number of bytes written per sample.
func (l Layout) SampleSize() int {
	if max(l.SourceBitDepth, l.OutputBitDepth) > 8 {
		return 2
	}
	return 1
}

// EffectiveCrop returns the luma crop applied to a picture of the given
// structure. The vertical factor is 4 for a frame of a field-capable
// sequence and 2 otherwise; the horizontal factor is always 2.
func (l Layout) EffectiveCrop(structure picture.Structure) Crop {
	if !l.Cropping {
		return Crop{}
	}
	vert := 2
	if !l.FrameMbsOnly && structure == picture.Frame {
		vert = 4
	}
	return Crop{
		Left:   2 * l.Crop.Left,
		Right:  2 * l.Crop.Right,
		Top:    vert * l.Crop.Top,
		Bottom: vert * l.Crop.Bottom,
	}
}

// Serializer writes pictures as a raw planar sample stream.
type Serializer struct {
	w      io.Writer
	layout Layout
	size   int
	buf    []byte

	bytesWritten int64
	pictures     int
}

// NewSerializer creates a Serializer writing to w.
func NewSerializer(w io.Writer, layout Layout) *Serializer {
	return &Serializer{
		w:      w,
		layout: layout,
		size:   layout.SampleSize(),
	}
}

// Write emits the cropped planes of p: luma then both chroma planes, or
// V, luma, U in RGB mode. Non-existing pictures produce no output.
func (s *Serializer) Write(p *picture.Picture) error {
	if p.NonExisting {
		return nil
	}

	crop := s.layout.EffectiveCrop(p.Structure)
	chromaCrop := crop.half()

	if s.layout.RGB {
		if err := s.writePlane(p.Chroma[1], chromaCrop); err != nil {
			return fmt.Errorf("write picture %d: %w", p.FrameIndex, err)
		}
	}
	if err := s.writePlane(p.Luma, crop); err != nil {
		return fmt.Errorf("write picture %d: %w", p.FrameIndex, err)
	}
	if err := s.writePlane(p.Chroma[0], chromaCrop); err != nil {
		return fmt.Errorf("write picture %d: %w", p.FrameIndex, err)
	}
	if !s.layout.RGB {
		if err := s.writePlane(p.Chroma[1], chromaCrop); err != nil {
			return fmt.Errorf("write picture %d: %w", p.FrameIndex, err)
		}
	}

	s.pictures++
	return nil
}

func (s *Serializer) writePlane(plane picture.Plane, crop Crop) error {
	if crop.Left < 0 || crop.Right < 0 || crop.Top < 0 || crop.Bottom < 0 {
		return fmt.Errorf("negative crop %+v", crop)
	}
	w := plane.Width - crop.Left - crop.Right
	h := plane.Height - crop.Top - crop.Bottom
	if w <= 0 || h <= 0 {
		return nil
	}

	n := w * h * s.size
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	buf := s.buf[:n]

	off := 0
	for y := crop.Top; y < crop.Top+h; y++ {
		row := plane.Row(y)[crop.Left : crop.Left+w]
		if s.size == 2 {
			for _, v := range row {
				binary.LittleEndian.PutUint16(buf[off:], v)
				off += 2
			}
		} else {
			for _, v := range row {
				buf[off] = byte(v)
				off++
			}
		}
	}

	written, err := s.w.Write(buf)
	s.bytesWritten += int64(written)
	if err != nil {
		return fmt.Errorf("write plane: %w", err)
	}
	return nil
}

// BytesWritten returns the number of bytes written so far.
func (s *Serializer) BytesWritten() int64 {
	return s.bytesWritten
}

// PicturesWritten returns the number of pictures that produced output.
func (s *Serializer) PicturesWritten() int {
	return s.pictures
}
