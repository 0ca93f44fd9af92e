package ports

import (
	"context"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/redundant"
	"github.com/user/picseq/pkg/sequence"
)

// PictureRequest carries the identity of one picture to the compression
// pipeline together with its source samples.
type PictureRequest struct {
	// FrameIndex is the coding index of the primary picture the request belongs to.
	FrameIndex  int
	SourceIndex int
	FrameNum    int

	Decision  sequence.Decision
	Order     sequence.Order
	Redundant redundant.State

	// FieldCoding asks for the picture to be coded as a top and a bottom field.
	FieldCoding bool

	Source *picture.Picture
}

// CodedPicture is the reconstruction of one coded picture: a single frame,
// or a top and a bottom field in that order.
type CodedPicture struct {
	Pictures []*picture.Picture
	Bytes    int
}

// PictureCoder abstracts the compression pipeline. Returned pictures are
// owned by the caller.
type PictureCoder interface {
	// Code compresses one picture and returns its reconstruction.
	Code(ctx context.Context, req PictureRequest) (CodedPicture, error)
}
