// Package yuvsource reads uncompressed planar YUV frames from a file.
package yuvsource

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
)

// ErrFormat is returned for an unsupported source layout.
var ErrFormat = errors.New("unsupported source format")

// Chroma formats, numbered as chroma_format_idc.
const (
	Chroma400 = 0
	Chroma420 = 1
	Chroma422 = 2
	Chroma444 = 3
)

// Options describes the layout of the source file.
type Options struct {
	Width        int
	Height       int
	ChromaFormat int
	BitDepth     int
	// HeaderBytes is skipped at the start of the file.
	HeaderBytes int64
}

// Reader implements ports.SourceReader over a raw planar file. Samples wider
// than 8 bits are stored as two little-endian bytes.
type Reader struct {
	r      io.ReadSeekCloser
	opts   Options
	format ports.SourceFormat
	alloc  *picture.Allocator

	sampleSize int
	frameSize  int64
	buf        []byte
}

// Open opens path through fs. Pictures are allocated from alloc.
func Open(fs ports.FileSystem, path string, opts Options, alloc *picture.Allocator) (*Reader, error) {
	format, err := formatOf(opts)
	if err != nil {
		return nil, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	return newReader(f, opts, format, alloc), nil
}

// New wraps an already opened source.
func New(r io.ReadSeekCloser, opts Options, alloc *picture.Allocator) (*Reader, error) {
	format, err := formatOf(opts)
	if err != nil {
		return nil, err
	}
	return newReader(r, opts, format, alloc), nil
}

func newReader(r io.ReadSeekCloser, opts Options, format ports.SourceFormat, alloc *picture.Allocator) *Reader {
	sampleSize := 1
	if opts.BitDepth > 8 {
		sampleSize = 2
	}
	samples := opts.Width * opts.Height
	if opts.ChromaFormat != Chroma400 {
		samples += 2 * format.ChromaWidth * format.ChromaHeight
	}
	return &Reader{
		r:          r,
		opts:       opts,
		format:     format,
		alloc:      alloc,
		sampleSize: sampleSize,
		frameSize:  int64(samples * sampleSize),
	}
}

func formatOf(opts Options) (ports.SourceFormat, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return ports.SourceFormat{}, fmt.Errorf("%w: size %dx%d", ErrFormat, opts.Width, opts.Height)
	}
	if opts.BitDepth < 8 || opts.BitDepth > 16 {
		return ports.SourceFormat{}, fmt.Errorf("%w: bit depth %d", ErrFormat, opts.BitDepth)
	}

	f := ports.SourceFormat{Width: opts.Width, Height: opts.Height, BitDepth: opts.BitDepth}
	switch opts.ChromaFormat {
	case Chroma400, Chroma420:
		f.ChromaWidth, f.ChromaHeight = opts.Width/2, opts.Height/2
	case Chroma422:
		f.ChromaWidth, f.ChromaHeight = opts.Width/2, opts.Height
	case Chroma444:
		f.ChromaWidth, f.ChromaHeight = opts.Width, opts.Height
	default:
		return ports.SourceFormat{}, fmt.Errorf("%w: chroma format %d", ErrFormat, opts.ChromaFormat)
	}
	return f, nil
}

// Format returns the source geometry.
func (r *Reader) Format() ports.SourceFormat {
	return r.format
}

// FrameCount returns the number of complete frames in the source.
func (r *Reader) FrameCount() (int, error) {
	end, err := r.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("measure source: %w", err)
	}
	return int((end - r.opts.HeaderBytes) / r.frameSize), nil
}

// ReadFrame reads source frame index. A 4:0:0 source gets neutral chroma.
func (r *Reader) ReadFrame(index int) (*picture.Picture, error) {
	f := r.format
	p, err := r.alloc.Alloc(picture.Frame, f.Width, f.Height, f.ChromaWidth, f.ChromaHeight)
	if err != nil {
		return nil, fmt.Errorf("read frame %d: %w", index, err)
	}
	p.FrameIndex = index

	if _, err := r.r.Seek(r.opts.HeaderBytes+int64(index)*r.frameSize, io.SeekStart); err != nil {
		_ = r.alloc.Release(p)
		return nil, fmt.Errorf("seek frame %d: %w", index, err)
	}
	if err := r.readPlane(p.Luma); err != nil {
		_ = r.alloc.Release(p)
		return nil, fmt.Errorf("read frame %d luma: %w", index, err)
	}

	if r.opts.ChromaFormat == Chroma400 {
		neutral := r.alloc.NeutralChroma()
		p.Chroma[0].Fill(neutral)
		p.Chroma[1].Fill(neutral)
		return p, nil
	}
	for i := range p.Chroma {
		if err := r.readPlane(p.Chroma[i]); err != nil {
			_ = r.alloc.Release(p)
			return nil, fmt.Errorf("read frame %d chroma: %w", index, err)
		}
	}
	return p, nil
}

func (r *Reader) readPlane(plane picture.Plane) error {
	n := len(plane.Samples) * r.sampleSize
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	buf := r.buf[:n]
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return err
	}

	if r.sampleSize == 2 {
		for i := range plane.Samples {
			plane.Samples[i] = binary.LittleEndian.Uint16(buf[2*i:])
		}
		return nil
	}
	for i, b := range buf {
		plane.Samples[i] = uint16(b)
	}
	return nil
}

// Close closes the source file.
func (r *Reader) Close() error {
	return r.r.Close()
}

var _ ports.SourceReader = (*Reader)(nil)
