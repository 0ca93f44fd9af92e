// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/picseq/pkg/ports"
)

// Sink saves debug output under a base directory:
//
//	sequence.json
//	pictures/picture-0000.json
//	previews/picture-0000.png
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.PreviewRenderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.PreviewRenderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSequenceJSON saves the sequence-level parameters.
func (s *Sink) SaveSequenceJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "sequence.json")
	return s.fs.WriteFile(path, data)
}

// SavePictureJSON saves the identity of one coded picture.
func (s *Sink) SavePictureJSON(index int, data []byte) error {
	dir := filepath.Join(s.baseDir, "pictures")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("picture-%04d.json", index))
	return s.fs.WriteFile(path, data)
}

// SavePreview saves a preview image of one coded picture as PNG.
func (s *Sink) SavePreview(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "previews")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("picture-%04d.png", index))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
