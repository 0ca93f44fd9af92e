package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/picseq/pkg/mocks"
	"github.com/user/picseq/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.PreviewRenderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveSequenceJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.PreviewRenderer{})

	data := []byte(`{"offsetForRefFrame": 2}`)
	if err := sink.SaveSequenceJSON(data); err != nil {
		t.Fatalf("SaveSequenceJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "sequence.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SavePictureJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.PreviewRenderer{})

	if err := sink.SavePictureJSON(7, []byte(`{}`)); err != nil {
		t.Fatalf("SavePictureJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "pictures", "picture-0007.json")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestSink_SavePreview(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.PreviewRenderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			if format != ports.FormatPNG {
				t.Errorf("expected PNG format, got %d", format)
			}
			return []byte("png"), nil
		},
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.SavePreview(12, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("SavePreview failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "previews", "picture-0012.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != "png" {
		t.Errorf("expected encoded data, got %q", saved)
	}
}

func TestSink_SavePreviewEncodeError(t *testing.T) {
	encodeErr := errors.New("encode failed")
	renderer := &mocks.PreviewRenderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, encodeErr
		},
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer)

	err := sink.SavePreview(0, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, encodeErr) {
		t.Errorf("expected encode error, got %v", err)
	}
}
