package pipeline

import (
	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/sequence"
)

// Layer identifies which pass of the driver produced a picture.
type Layer int

const (
	// LayerPrimary is the base layer of I, P and SP pictures.
	LayerPrimary Layer = iota
	// LayerRedundant is the backup pass of a key picture.
	LayerRedundant
	// LayerEnhancement holds the B pictures between two primary pictures.
	LayerEnhancement
)

// String returns the string representation of the layer.
func (l Layer) String() string {
	switch l {
	case LayerPrimary:
		return "primary"
	case LayerRedundant:
		return "redundant"
	case LayerEnhancement:
		return "enhancement"
	default:
		return "unknown"
	}
}

// =============================================================================
// Code Stage Types
// =============================================================================

// CodeInput contains one picture to be coded.
type CodeInput struct {
	Layer   Layer
	Request ports.PictureRequest
}

// CodeResult contains the reconstruction of a coded picture.
type CodeResult struct {
	Layer     Layer
	SliceType sequence.SliceType
	// Pictures holds one frame, or a top and a bottom field.
	Pictures []*picture.Picture
	Bytes    int
}

// PictureRecord is the identity of one coded picture as saved to the debug sink.
type PictureRecord struct {
	Layer       string `json:"layer"`
	FrameIndex  int    `json:"frameIndex"`
	SourceIndex int    `json:"sourceIndex"`
	FrameNum    int    `json:"frameNum"`
	SliceType   string `json:"sliceType"`
	Priority    int    `json:"priority"`
	IDR         bool   `json:"idr"`
	TopPOC      int    `json:"topPoc"`
	BottomPOC   int    `json:"bottomPoc"`
	FramePOC    int    `json:"framePoc"`
	DeltaPOC    int    `json:"deltaPoc"`
	KeyFrame    bool   `json:"keyFrame"`
	RefIndex    int    `json:"refIndex"`
	Bytes       int    `json:"bytes"`
}

// NewPictureRecord builds the debug record of a coded picture.
func NewPictureRecord(in CodeInput, res CodeResult) PictureRecord {
	r := in.Request
	return PictureRecord{
		Layer:       in.Layer.String(),
		FrameIndex:  r.FrameIndex,
		SourceIndex: r.SourceIndex,
		FrameNum:    r.FrameNum,
		SliceType:   r.Decision.SliceType.String(),
		Priority:    int(r.Decision.Priority),
		IDR:         r.Decision.IDR,
		TopPOC:      r.Order.Top,
		BottomPOC:   r.Order.Bottom,
		FramePOC:    r.Order.Frame,
		DeltaPOC:    r.Order.Delta,
		KeyFrame:    r.Redundant.KeyFrame,
		RefIndex:    r.Redundant.RefIndex,
		Bytes:       res.Bytes,
	}
}
