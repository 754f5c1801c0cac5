package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner enumerates classifiable files and existing category folders.
type Scanner struct {
	extensions map[string]struct{}
}

// New constructs a Scanner restricted to the given extension allow-list.
// Extensions are matched case-insensitively and must include the leading dot.
func New(extensions []string) *Scanner {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return &Scanner{extensions: set}
}

// Scan lists files directly under root whose extension is allow-listed.
// Results are sorted by name so discovery order is deterministic across runs.
func (s *Scanner) Scan(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan directory %s: %w", root, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := s.extensions[ext]; !ok {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// CategoryFolders returns the names of subdirectories of root, excluding the
// fallback category folder. These are the labels already minted by earlier
// runs and are offered to the classifier for reuse.
func (s *Scanner) CategoryFolders(root, exclude string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list category folders in %s: %w", root, err)
	}

	var categories []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() == exclude {
			continue
		}
		categories = append(categories, entry.Name())
	}
	sort.Strings(categories)
	return categories, nil
}

// CheckAccess verifies that a directory exists and is listable before a run
// commits to creating a task over its contents.
func CheckAccess(dir string) error {
	if _, err := os.ReadDir(dir); err != nil {
		return fmt.Errorf("directory %s is not accessible: %w", dir, err)
	}
	return nil
}
