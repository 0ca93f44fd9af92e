package loopback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/sequence"
)

func newSource(t *testing.T, alloc *picture.Allocator) *picture.Picture {
	t.Helper()
	p, err := alloc.Alloc(picture.Frame, 8, 4, 4, 2)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			p.Luma.Set(x, y, uint16(y*10+x))
		}
	}
	p.Chroma[0].Fill(128)
	p.Chroma[1].Fill(128)
	return p
}

func TestCoder_Frame(t *testing.T) {
	alloc := picture.NewAllocator(8, 8)
	c := New(Options{BitDepth: 8}, alloc)
	src := newSource(t, alloc)

	coded, err := c.Code(context.Background(), ports.PictureRequest{
		FrameIndex: 5,
		Decision:   sequence.Decision{SliceType: sequence.SliceI},
		Source:     src,
	})
	require.NoError(t, err)
	require.Len(t, coded.Pictures, 1)

	frame := coded.Pictures[0]
	assert.Equal(t, picture.Frame, frame.Structure)
	assert.Equal(t, 5, frame.FrameIndex)
	assert.Equal(t, src.Luma.Samples, frame.Luma.Samples)
	// 48 samples at 8 bits, I pictures cost a quarter.
	assert.Equal(t, 12, coded.Bytes)
}

func TestCoder_Quantize(t *testing.T) {
	alloc := picture.NewAllocator(8, 8)
	c := New(Options{BitDepth: 8, QuantShift: 2}, alloc)

	coded, err := c.Code(context.Background(), ports.PictureRequest{Source: newSource(t, alloc)})
	require.NoError(t, err)

	// 13 = 0b1101 -> 0b1100 | 0b10 = 14
	assert.Equal(t, uint16(14), coded.Pictures[0].Luma.At(3, 1))
}

func TestCoder_Fields(t *testing.T) {
	alloc := picture.NewAllocator(8, 8)
	c := New(Options{BitDepth: 8}, alloc)
	src := newSource(t, alloc)

	coded, err := c.Code(context.Background(), ports.PictureRequest{FieldCoding: true, Source: src})
	require.NoError(t, err)
	require.Len(t, coded.Pictures, 2)

	top, bottom := coded.Pictures[0], coded.Pictures[1]
	assert.Equal(t, picture.TopField, top.Structure)
	assert.Equal(t, picture.BottomField, bottom.Structure)
	assert.Equal(t, uint16(20), top.Luma.At(0, 1))
	assert.Equal(t, uint16(10), bottom.Luma.At(0, 0))

	// Source plus the two fields; the intermediate frame is released.
	assert.Equal(t, 3, alloc.Live())
}

func TestCoder_BytesBySliceType(t *testing.T) {
	alloc := picture.NewAllocator(8, 8)
	c := New(Options{BitDepth: 8}, alloc)

	sizes := map[sequence.SliceType]int{}
	for _, st := range []sequence.SliceType{sequence.SliceI, sequence.SliceP, sequence.SliceB} {
		coded, err := c.Code(context.Background(), ports.PictureRequest{
			Decision: sequence.Decision{SliceType: st},
			Source:   newSource(t, alloc),
		})
		require.NoError(t, err)
		sizes[st] = coded.Bytes
	}

	assert.Greater(t, sizes[sequence.SliceI], sizes[sequence.SliceP])
	assert.Greater(t, sizes[sequence.SliceP], sizes[sequence.SliceB])
}
