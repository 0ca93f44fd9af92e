package mocks

import (
	"image"
	"sync"

	"github.com/user/picseq/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SequenceJSON []byte
	PictureJSON  map[int][]byte
	Previews     map[int]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:     enabled,
		PictureJSON: make(map[int][]byte),
		Previews:    make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSequenceJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SequenceJSON = data
	return nil
}

func (m *DebugSink) SavePictureJSON(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PictureJSON[index] = data
	return nil
}

func (m *DebugSink) SavePreview(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Previews[index] = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
