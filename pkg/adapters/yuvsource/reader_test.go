package yuvsource

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/picseq/pkg/mocks"
	"github.com/user/picseq/pkg/picture"
)

// frame420 builds one 4x2 4:2:0 frame: luma base..base+7, Cb 100+base, Cr 200+base.
func frame420(base byte) []byte {
	out := make([]byte, 0, 12)
	for i := byte(0); i < 8; i++ {
		out = append(out, base+i)
	}
	out = append(out, 100+base, 101+base, 200+base, 201+base)
	return out
}

func openTestSource(t *testing.T, data []byte, opts Options) (*Reader, *picture.Allocator) {
	t.Helper()
	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("in.yuv", data))
	alloc := picture.NewAllocator(opts.BitDepth, opts.BitDepth)
	r, err := Open(fs, "in.yuv", opts, alloc)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, alloc
}

func TestReader_ReadFrameRandomAccess(t *testing.T) {
	data := append(frame420(0), frame420(10)...)
	data = append(data, frame420(20)...)
	r, _ := openTestSource(t, data, Options{Width: 4, Height: 2, ChromaFormat: Chroma420, BitDepth: 8})

	n, err := r.FrameCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	p, err := r.ReadFrame(2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.FrameIndex)
	assert.Equal(t, []uint16{20, 21, 22, 23, 24, 25, 26, 27}, p.Luma.Samples)
	assert.Equal(t, []uint16{120, 121}, p.Chroma[0].Samples)
	assert.Equal(t, []uint16{220, 221}, p.Chroma[1].Samples)

	p, err = r.ReadFrame(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), p.Luma.At(0, 0))
}

func TestReader_TwoByteLittleEndian(t *testing.T) {
	data := []byte{
		0x01, 0x02, 0xff, 0x03, // luma 2x2, first row
		0x00, 0x01, 0x00, 0x00, // luma second row
		0x00, 0x02, // Cb 1x1
		0x10, 0x00, // Cr 1x1
	}
	r, _ := openTestSource(t, data, Options{Width: 2, Height: 2, ChromaFormat: Chroma420, BitDepth: 10})

	p, err := r.ReadFrame(0)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0201, 0x03ff, 0x0100, 0}, p.Luma.Samples)
	assert.Equal(t, uint16(0x0200), p.Chroma[0].At(0, 0))
	assert.Equal(t, uint16(0x0010), p.Chroma[1].At(0, 0))
}

func TestReader_Monochrome(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r, _ := openTestSource(t, data, Options{Width: 4, Height: 2, ChromaFormat: Chroma400, BitDepth: 8})

	p, err := r.ReadFrame(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(8), p.Luma.At(3, 1))
	assert.Equal(t, []uint16{128, 128}, p.Chroma[0].Samples)
}

func TestReader_ShortFrameReleasesPicture(t *testing.T) {
	r, alloc := openTestSource(t, frame420(0)[:5], Options{Width: 4, Height: 2, ChromaFormat: Chroma420, BitDepth: 8})

	_, err := r.ReadFrame(0)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 0, alloc.Live())
}

func TestOpen_RejectsFormat(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero size", opts: Options{Width: 0, Height: 2, BitDepth: 8}},
		{name: "bit depth", opts: Options{Width: 2, Height: 2, BitDepth: 7}},
		{name: "chroma format", opts: Options{Width: 2, Height: 2, BitDepth: 8, ChromaFormat: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(mocks.NewFileSystem(), "missing.yuv", tt.opts, picture.NewAllocator(8, 8))
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}
