package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteFile_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "doc.json")

	if err := WriteFile(p, []byte("one"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(p, []byte("two"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q want %q", b, "two")
	}

	entries, err := os.ReadDir(filepath.Dir(p))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFileMode_Default(t *testing.T) {
	if got := FileMode(filepath.Join(t.TempDir(), "missing"), 0o600); got != 0o600 {
		t.Fatalf("got %v want 0600", got)
	}
}

func TestLock_Contended(t *testing.T) {
	p := filepath.Join(t.TempDir(), "build.lock")

	release, err := Lock(p, time.Second)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer release()

	_, err = Lock(p, 300*time.Millisecond)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
