package ports

import "io"

// FileSystem is the file access used for sources, parameter-set and
// hierarchy files, the reconstructed output and statistics and debug files.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// Open opens a file for random-access reading.
	Open(path string) (io.ReadSeekCloser, error)

	// Create creates or truncates a file for streaming writes.
	Create(path string) (io.WriteCloser, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)
}
