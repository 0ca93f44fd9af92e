package ports

import "github.com/user/picseq/pkg/picture"

// SourceFormat describes the geometry of source frames.
type SourceFormat struct {
	Width        int
	Height       int
	ChromaWidth  int
	ChromaHeight int
	BitDepth     int
}

// SourceReader abstracts reading uncompressed source frames.
type SourceReader interface {
	// Format returns the source geometry.
	Format() SourceFormat

	// ReadFrame reads source frame index. Frames may be read in any order.
	ReadFrame(index int) (*picture.Picture, error)

	// Close releases the underlying file.
	Close() error
}
