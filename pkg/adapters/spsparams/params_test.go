package spsparams

import (
	"bytes"
	"testing"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/picseq/pkg/mocks"
	"github.com/user/picseq/pkg/ports"
)

func TestFromSPS(t *testing.T) {
	sps := &avc.SPS{
		Width:                 1920,
		Height:                1080,
		ChromaFormatIDC:       1,
		BitDepthLumaMinus8:    2,
		BitDepthChromaMinus8:  0,
		Log2MaxFrameNumMinus4: 4,
		NumRefFrames:          16,
		FrameMbsOnlyFlag:      false,
		FrameCroppingFlag:     true,
		FrameCropBottomOffset: 4,
		FrameCropTopOffset:    2,
	}

	p := FromSPS(sps)

	assert.Equal(t, ports.SequenceParameters{
		Width:           1920,
		Height:          1080,
		FrameMbsOnly:    false,
		Cropping:        true,
		CropTop:         2,
		CropBottom:      4,
		NumRefFrames:    16,
		Log2MaxFrameNum: 8,
		BitDepthLuma:    10,
		BitDepthChroma:  8,
		ChromaFormat:    1,
	}, p)
	assert.Equal(t, 256, p.MaxFrameNum())
}

func TestFromSPS_IgnoresOffsetsWithoutCropping(t *testing.T) {
	p := FromSPS(&avc.SPS{FrameCropTopOffset: 3})

	assert.False(t, p.Cropping)
	assert.Zero(t, p.CropTop)
}

func TestParseByteStream_NoSPS(t *testing.T) {
	// A lone PPS NAL unit.
	stream := []byte{0, 0, 0, 1, 0x68, 0xce, 0x3c, 0x80}

	_, err := ParseByteStream(stream)
	assert.ErrorIs(t, err, ErrNoSPS)
}

func TestParseNALUnit_Truncated(t *testing.T) {
	_, err := ParseNALUnit([]byte{0x67})
	assert.Error(t, err)
}

func TestReadMP4_Invalid(t *testing.T) {
	_, err := ReadMP4(bytes.NewReader([]byte("not an mp4 file")))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	fs := mocks.NewFileSystem()

	_, err := Load(fs, "missing.264")
	assert.Error(t, err)

	_, err = Load(fs, "missing.mp4")
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	params := ports.SequenceParameters{NumRefFrames: 5, Log2MaxFrameNum: 4}
	sets := Fixed(params)

	require.NotNil(t, sets)
	assert.Equal(t, params, sets.Sequence())
}
