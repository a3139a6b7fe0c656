package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore keeps attachment payloads on local disk, one directory per
// attachment id.
type FileStore struct {
	BaseDir string
}

func New(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Save streams content to disk and returns the number of bytes written.
func (s *FileStore) Save(id, name string, content io.Reader) (int64, error) {
	dir := filepath.Join(s.BaseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create attachment dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, filepath.Base(name)))
	if err != nil {
		return 0, fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, content)
	if err != nil {
		return 0, fmt.Errorf("write attachment file: %w", err)
	}
	return n, nil
}

// Open returns the stored payload for reading. The caller closes it.
func (s *FileStore) Open(id, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.BaseDir, id, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("open attachment file: %w", err)
	}
	return f, nil
}
