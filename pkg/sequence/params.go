// Package sequence decides the temporal identity of every coded picture:
// picture order counts, frame numbers, slice types and refresh points.
package sequence

import "errors"

// ErrIncompatible is returned when configuration options cannot be combined.
var ErrIncompatible = errors.New("configuration incompatible")

// InterlaceMode selects frame, field or adaptive coding at picture or
// macroblock level.
type InterlaceMode int

const (
	FrameCoding InterlaceMode = iota
	FieldCoding
	AdaptiveCoding
)

// ReferenceBMode controls how B pictures take part in prediction.
type ReferenceBMode int

const (
	// BRefNone codes B pictures as non-reference pictures.
	BRefNone ReferenceBMode = iota
	// BRefReference keeps B pictures as references.
	BRefReference
	// BRefAll codes every primary picture after the refresh point as B.
	BRefAll
)

// Params holds the sequence-level options consulted for every picture.
type Params struct {
	// FrameCount is the number of primary (non-B) pictures to code.
	FrameCount int
	// LastFrame is the index of the last source frame, 0 when unknown.
	LastFrame int

	IntraPeriod int
	IDRPeriod   int
	AdaptiveIDR bool
	IntraDelay  int

	// FrameSkip is the number of source frames between two primary pictures.
	FrameSkip   int
	SuccessiveB int
	ReferenceB  ReferenceBMode
	DisposableP bool
	SPPeriod    int

	PicInterlace InterlaceMode
	MbInterlace  InterlaceMode

	// Hierarchical selects hierarchical B coding (0 disables it).
	Hierarchical int

	// MaxFrameNum is the frame_num modulus (1 << log2_max_frame_num).
	MaxFrameNum int
}

// Progressive reports whether neither picture- nor macroblock-level
// interlace is enabled.
func (p Params) Progressive() bool {
	return p.PicInterlace == FrameCoding && p.MbInterlace == FrameCoding
}

// WithFrameBudget returns a copy of p whose FrameCount is derived from
// LastFrame when the last source frame is known.
func (p Params) WithFrameBudget() Params {
	if p.LastFrame > 0 {
		p.FrameCount = 1 + (p.LastFrame+p.FrameSkip)/(p.FrameSkip+1)
	}
	return p
}

// atIDRPoint reports whether the picture on the clock starts a new IDR
// period, measured from the last IDR (fixed) or from the more recent of the
// last intra and last IDR picture (adaptive).
func (p Params) atIDRPoint(c *Clock) bool {
	if p.IDRPeriod == 0 {
		return c.FrameIndex == 0
	}
	return (c.FrameIndex-p.idrAnchor(c))%p.IDRPeriod == 0
}

func (p Params) idrAnchor(c *Clock) int {
	if p.AdaptiveIDR {
		return max(c.LastIntra, c.LastIDR)
	}
	return c.LastIDR
}
