package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"shelfsort/internal/fileutil"
)

// RelocationError reports a failed move. The caller decides whether the file
// still counts as processed; the organizer never swallows the failure.
type RelocationError struct {
	Source string
	Dest   string
	Err    error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("relocate %s to %s: %v", e.Source, e.Dest, e.Err)
}

func (e *RelocationError) Unwrap() error {
	return e.Err
}

// Relocator moves files into category-named subdirectories of a target root.
type Relocator struct{}

// New constructs a Relocator.
func New() *Relocator {
	return &Relocator{}
}

// Relocate moves the file at path into targetRoot/category, creating the
// category directory if needed. Name collisions are resolved by appending an
// incrementing counter before the extension; an existing file is never
// overwritten. The final destination path is returned.
func (r *Relocator) Relocate(path, targetRoot, category string) (string, error) {
	filename := filepath.Base(path)
	categoryDir := filepath.Join(targetRoot, category)

	if err := os.MkdirAll(categoryDir, 0o755); err != nil {
		return "", &RelocationError{Source: path, Dest: categoryDir, Err: err}
	}

	dest := resolveCollision(filepath.Join(categoryDir, filename))
	if err := moveFile(path, dest); err != nil {
		return "", &RelocationError{Source: path, Dest: dest, Err: err}
	}
	return dest, nil
}

// moveFile renames path to dest, falling back to a verified copy plus delete
// when source and target live on different filesystems.
func moveFile(path, dest string) error {
	err := os.Rename(path, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}
	if err := fileutil.CopyFileVerified(path, dest); err != nil {
		return err
	}
	return os.Remove(path)
}

// resolveCollision returns the first free path derived from candidate by
// appending _1, _2, ... before the extension. Deterministic given the
// directory contents.
func resolveCollision(candidate string) string {
	if _, err := os.Stat(candidate); err != nil {
		return candidate
	}

	dir := filepath.Dir(candidate)
	filename := filepath.Base(candidate)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	for counter := 1; ; counter++ {
		next := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if _, err := os.Stat(next); err != nil {
			return next
		}
	}
}
