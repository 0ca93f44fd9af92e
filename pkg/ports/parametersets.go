package ports

// SequenceParameters are the sequence-level values this core reads from the
// parameter-set layer.
type SequenceParameters struct {
	Width  int
	Height int

	// FrameMbsOnly is false for sequences that may carry field pictures.
	FrameMbsOnly bool

	Cropping   bool
	CropLeft   int
	CropRight  int
	CropTop    int
	CropBottom int

	NumRefFrames    int
	Log2MaxFrameNum int

	BitDepthLuma   int
	BitDepthChroma int
	ChromaFormat   int
}

// MaxFrameNum returns the frame_num modulus.
func (p SequenceParameters) MaxFrameNum() int {
	return 1 << p.Log2MaxFrameNum
}

// ParameterSets abstracts the parameter-set layer.
type ParameterSets interface {
	// Sequence returns the active sequence parameters.
	Sequence() SequenceParameters
}
