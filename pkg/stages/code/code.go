// Package code implements the compression stage of the per-picture driver.
package code

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/pipeline"
	"github.com/user/picseq/pkg/ports"
)

// ErrMalformedResult is returned when the coder returns pictures that do not
// match the requested structure.
var ErrMalformedResult = errors.New("coder returned malformed result")

// Stage codes one picture through a ports.PictureCoder.
type Stage struct {
	coder  ports.PictureCoder
	logger ports.Logger
}

// NewStage creates a new code stage.
func NewStage(coder ports.PictureCoder, logger ports.Logger) *Stage {
	return &Stage{
		coder:  coder,
		logger: logger.WithComponent("code"),
	}
}

// Execute codes the requested picture and checks the shape of the result:
// one frame, or a top and a bottom field when field coding was requested.
func (s *Stage) Execute(ctx context.Context, input pipeline.CodeInput) (pipeline.CodeResult, error) {
	req := input.Request
	result := pipeline.CodeResult{
		Layer:     input.Layer,
		SliceType: req.Decision.SliceType,
	}

	if req.Source == nil {
		return result, fmt.Errorf("code %s picture %d: no source", input.Layer, req.FrameIndex)
	}

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	coded, err := s.coder.Code(ctx, req)
	if err != nil {
		return result, fmt.Errorf("code %s picture %d: %w", input.Layer, req.FrameIndex, err)
	}
	if err := checkStructure(coded.Pictures, req.FieldCoding); err != nil {
		return result, fmt.Errorf("code %s picture %d: %w", input.Layer, req.FrameIndex, err)
	}

	for _, p := range coded.Pictures {
		p.FrameIndex = req.FrameIndex
	}

	s.logger.Debug("Coded %s %s picture %d (source %d, frame_num %d, POC %d/%d), %d bytes",
		input.Layer, req.Decision.SliceType, req.FrameIndex, req.SourceIndex, req.FrameNum,
		req.Order.Top, req.Order.Bottom, coded.Bytes)

	result.Pictures = coded.Pictures
	result.Bytes = coded.Bytes
	return result, nil
}

func checkStructure(pictures []*picture.Picture, fieldCoding bool) error {
	if !fieldCoding {
		if len(pictures) != 1 || pictures[0].Structure != picture.Frame {
			return fmt.Errorf("%w: expected one frame, got %d pictures", ErrMalformedResult, len(pictures))
		}
		return nil
	}
	if len(pictures) != 2 {
		return fmt.Errorf("%w: expected two fields, got %d pictures", ErrMalformedResult, len(pictures))
	}
	if pictures[0].Structure != picture.TopField || pictures[1].Structure != picture.BottomField {
		return fmt.Errorf("%w: expected top and bottom field, got %s and %s",
			ErrMalformedResult, pictures[0].Structure, pictures[1].Structure)
	}
	return nil
}
