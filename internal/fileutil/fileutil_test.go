package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "nested", "out.png")

	n, err := WriteAtomic(dst, 0o644, func(w io.Writer) (int64, error) {
		written, err := io.WriteString(w, "hello world")
		return int64(written), err
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 11 {
		t.Fatalf("expected 11 bytes, got %d", n)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.png")
	boom := errors.New("boom")

	_, err := WriteAtomic(dst, 0o644, func(w io.Writer) (int64, error) {
		_, _ = io.WriteString(w, "partial")
		return 7, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fill error, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, found %d entries", len(entries))
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(file) {
		t.Fatal("expected file to exist")
	}
	if FileExists(dir) {
		t.Fatal("directory must not count as a file")
	}
	if FileExists(filepath.Join(dir, "missing.png")) {
		t.Fatal("missing path must not exist")
	}
}
