package ports

import (
	"image"
)

// DebugSink abstracts debug output for picture identities and previews.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSequenceJSON saves the sequence-level parameters as JSON.
	SaveSequenceJSON(data []byte) error

	// SavePictureJSON saves the identity of one coded picture as JSON.
	SavePictureJSON(index int, data []byte) error

	// SavePreview saves a preview image of one coded picture.
	SavePreview(index int, img image.Image) error
}
