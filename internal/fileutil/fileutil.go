package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic creates path by streaming fill into a temp file in the same
// directory and renaming it into place. On any failure the temp file is
// removed and path is left untouched.
func WriteAtomic(path string, mode os.FileMode, fill func(w io.Writer) (int64, error)) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	n, fillErr := fill(tmp)
	closeErr := tmp.Close()
	if fillErr != nil {
		cleanup()
		return n, fillErr
	}
	if closeErr != nil {
		cleanup()
		return n, fmt.Errorf("close temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return n, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return n, fmt.Errorf("rename temp file: %w", err)
	}
	return n, nil
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
