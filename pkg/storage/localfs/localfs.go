// Package localfs stores attachment payloads on the local filesystem
// under a configured base directory.
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/testdeck/testdeck/pkg/core"
	"github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

const dirPerm = 0o755

type fileStore struct {
	baseDir string
	logger  lumber.Logger
}

// New returns a file store rooted at baseDir, creating it if needed.
func New(baseDir string, logger lumber.Logger) (core.FileStore, error) {
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absDir, dirPerm); err != nil {
		return nil, err
	}
	return &fileStore{baseDir: absDir, logger: logger}, nil
}

// Save writes the payload at the relative path and returns the number of
// bytes written.
func (s *fileStore) Save(ctx context.Context, relativePath string, r io.Reader) (int64, error) {
	target, err := s.resolve(relativePath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return 0, err
	}
	f, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		// do not leave partial payloads behind
		if rerr := os.Remove(target); rerr != nil {
			s.logger.Errorf("failed to remove partial file %s, error: %v", target, rerr)
		}
		return 0, err
	}
	return written, nil
}

// Open returns a reader over the stored payload.
func (s *fileStore) Open(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	target, err := s.resolve(relativePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrRowsNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes the stored payload. Missing files are not an error.
func (s *fileStore) Remove(ctx context.Context, relativePath string) error {
	target, err := s.resolve(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve joins the relative path under the base directory and rejects
// paths that escape it.
func (s *fileStore) resolve(relativePath string) (string, error) {
	target := filepath.Join(s.baseDir, filepath.Clean("/"+relativePath))
	if !strings.HasPrefix(target, s.baseDir+string(os.PathSeparator)) {
		return "", errors.New("invalid storage path")
	}
	return target, nil
}
