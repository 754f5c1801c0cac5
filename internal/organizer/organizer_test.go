package organizer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shelfsort/internal/organizer"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRelocateCreatesCategoryDir(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	path := filepath.Join(src, "a.pdf")
	writeFile(t, path)

	r := organizer.New()
	dest, err := r.Relocate(path, target, "Fiction")
	if err != nil {
		t.Fatalf("Relocate failed: %v", err)
	}
	if dest != filepath.Join(target, "Fiction", "a.pdf") {
		t.Fatalf("unexpected destination %s", dest)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source should be gone, got %v", err)
	}
}

func TestRelocateResolvesCollisions(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	r := organizer.New()

	var got []string
	for i := 0; i < 3; i++ {
		path := filepath.Join(src, "a.pdf")
		writeFile(t, path)
		dest, err := r.Relocate(path, target, "Fiction")
		if err != nil {
			t.Fatalf("Relocate %d failed: %v", i, err)
		}
		got = append(got, filepath.Base(dest))
	}

	want := []string{"a.pdf", "a_1.pdf", "a_2.pdf"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("relocation %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRelocateMissingSource(t *testing.T) {
	r := organizer.New()
	_, err := r.Relocate(filepath.Join(t.TempDir(), "ghost.pdf"), t.TempDir(), "Fiction")
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	var relErr *organizer.RelocationError
	if !errors.As(err, &relErr) {
		t.Fatalf("expected RelocationError, got %T", err)
	}
	if relErr.Source == "" || relErr.Dest == "" {
		t.Fatalf("error should carry paths: %#v", relErr)
	}
}
