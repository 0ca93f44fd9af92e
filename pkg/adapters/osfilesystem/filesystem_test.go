package osfilesystem

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "runs", "stats.yaml")

	if err := fs.WriteFile(path, []byte("aborted: false\n")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "aborted: false\n" {
		t.Errorf("unexpected contents %q", data)
	}
}

func TestFileSystem_ReadFileMissing(t *testing.T) {
	fs := New()
	if _, err := fs.ReadFile(filepath.Join(t.TempDir(), "stream.264")); err == nil {
		t.Error("expected error for a missing parameter-set file")
	}
}

func TestFileSystem_MkdirAllAndExists(t *testing.T) {
	fs := New()
	dir := filepath.Join(t.TempDir(), "debug", "previews")

	exists, err := fs.Exists(dir)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("expected debug directory to be absent")
	}

	if err := fs.MkdirAll(dir); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if exists, _ := fs.Exists(dir); !exists {
		t.Error("expected debug directory to exist")
	}
}

// TestFileSystem_CreateAndOpen streams a two-frame recon file and reads the
// second frame back by offset, as the YUV source does.
func TestFileSystem_CreateAndOpen(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "out", "recon.yuv")
	frames := [][]byte{{1, 1, 1, 1, 1, 1}, {2, 2, 2, 2, 2, 2}}

	w, err := fs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, frame := range frames {
		if _, err := w.Write(frame); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := fs.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Seek(int64(len(frames[0])), io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	buf := make([]byte, len(frames[1]))
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("ReadFull failed: %v", err)
	}
	if !bytes.Equal(buf, frames[1]) {
		t.Errorf("expected second frame %v, got %v", frames[1], buf)
	}
}

func TestFileSystem_CreateTruncates(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "recon.yuv")

	if err := fs.WriteFile(path, []byte{9, 9, 9, 9}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	w, err := fs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Write([]byte{7})
	w.Close()

	data, _ := fs.ReadFile(path)
	if !bytes.Equal(data, []byte{7}) {
		t.Errorf("expected previous output to be replaced, got %v", data)
	}
}
