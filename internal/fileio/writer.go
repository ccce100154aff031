package fileio

import (
	"os"
	"path"
)

// Writer writes console data files under a root directory.
type Writer struct {
	// rootDir is the root directory for the writer, useful for testing
	rootDir string
}

func NewWriter() *Writer {
	return &Writer{}
}

// SetRootdir sets the root directory for the writer, useful for testing
func (w *Writer) SetRootdir(path string) {
	w.rootDir = path
}

// PathFor returns the full path for the provided file, useful for using
// functions and libraries that don't work with the fileio.Writer
func (w *Writer) PathFor(filePath string) string {
	return path.Join(w.rootDir, filePath)
}

// WriteFile writes the file at the provided path, creating parent
// directories as needed.
func (w *Writer) WriteFile(filePath string, data []byte) error {
	full := w.PathFor(filePath)
	if err := os.MkdirAll(path.Dir(full), 0700); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0644)
}
