package picture

import "fmt"

// Combine interleaves a top and a bottom field into a new frame: even rows
// come from the top field, odd rows from the bottom field, per plane.
func (a *Allocator) Combine(top, bottom *Picture) (*Picture, error) {
	if top.Width() != bottom.Width() || top.Height() != bottom.Height() ||
		top.ChromaWidth() != bottom.ChromaWidth() || top.ChromaHeight() != bottom.ChromaHeight() {
		return nil, fmt.Errorf("%w: top %dx%d, bottom %dx%d",
			ErrFieldMismatch, top.Width(), top.Height(), bottom.Width(), bottom.Height())
	}

	frame, err := a.Alloc(Frame, top.Width(), top.Height()*2, top.ChromaWidth(), top.ChromaHeight()*2)
	if err != nil {
		return nil, fmt.Errorf("combine fields: %w", err)
	}
	frame.FrameIndex = top.FrameIndex

	interleave(frame.Luma, top.Luma, bottom.Luma)
	interleave(frame.Chroma[0], top.Chroma[0], bottom.Chroma[0])
	interleave(frame.Chroma[1], top.Chroma[1], bottom.Chroma[1])

	return frame, nil
}

// Split is the inverse of Combine: it copies the even rows of frame into a
// new top field and the odd rows into a new bottom field.
func (a *Allocator) Split(frame *Picture) (top, bottom *Picture, err error) {
	w, h := frame.Width(), frame.Height()/2
	cw, ch := frame.ChromaWidth(), frame.ChromaHeight()/2

	top, err = a.Alloc(TopField, w, h, cw, ch)
	if err != nil {
		return nil, nil, fmt.Errorf("split top field: %w", err)
	}
	bottom, err = a.Alloc(BottomField, w, h, cw, ch)
	if err != nil {
		_ = a.Release(top)
		return nil, nil, fmt.Errorf("split bottom field: %w", err)
	}
	top.FrameIndex = frame.FrameIndex
	bottom.FrameIndex = frame.FrameIndex

	deinterleave(frame.Luma, top.Luma, bottom.Luma)
	deinterleave(frame.Chroma[0], top.Chroma[0], bottom.Chroma[0])
	deinterleave(frame.Chroma[1], top.Chroma[1], bottom.Chroma[1])

	return top, bottom, nil
}

func interleave(dst, top, bottom Plane) {
	for y := 0; y < top.Height; y++ {
		copy(dst.Row(2*y), top.Row(y))
		copy(dst.Row(2*y+1), bottom.Row(y))
	}
}

func deinterleave(src, top, bottom Plane) {
	for y := 0; y < top.Height; y++ {
		copy(top.Row(y), src.Row(2*y))
		copy(bottom.Row(y), src.Row(2*y+1))
	}
}
