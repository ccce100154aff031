package fileio

import (
	"os"
	"path"
)

// Reader reads console data files under a root directory.
type Reader struct {
	rootDir string
}

func NewReader() *Reader {
	return &Reader{}
}

// SetRootdir sets the root directory for the reader, useful for testing
func (r *Reader) SetRootdir(path string) {
	r.rootDir = path
}

func (r *Reader) PathFor(filePath string) string {
	return path.Join(r.rootDir, filePath)
}

func (r *Reader) CheckPathExists(filePath string) error {
	_, err := os.Stat(r.PathFor(filePath))
	return err
}

func (r *Reader) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(r.PathFor(filePath))
}
