// Package pipeline provides the stage plumbing between the per-picture
// driver and the compression pipeline.
package pipeline

import (
	"context"
)

// Stage is one step the driver runs for every coded picture, such as
// handing a PictureRequest to the coder.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function serve as a Stage, which tests use to
// stand in for the code stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
