// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/picseq/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveSequenceJSON does nothing.
func (s *Sink) SaveSequenceJSON(data []byte) error {
	return nil
}

// SavePictureJSON does nothing.
func (s *Sink) SavePictureJSON(index int, data []byte) error {
	return nil
}

// SavePreview does nothing.
func (s *Sink) SavePreview(index int, img image.Image) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
