package scanner_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"shelfsort/internal/scanner"
)

func TestScanFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zebra.pdf", "apple.EPUB", "notes.docx", "readme"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "subdir.pdf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s := scanner.New([]string{".pdf", ".epub"})
	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []string{
		filepath.Join(root, "apple.EPUB"),
		filepath.Join(root, "zebra.pdf"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("unexpected files: got %v, want %v", files, want)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	s := scanner.New([]string{".pdf"})
	if _, err := s.Scan(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestCategoryFoldersExcludesFallback(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"Fiction", "Science", "Uncategorized"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.pdf"), nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	s := scanner.New(nil)
	categories, err := s.CategoryFolders(root, "Uncategorized")
	if err != nil {
		t.Fatalf("CategoryFolders failed: %v", err)
	}
	if !reflect.DeepEqual(categories, []string{"Fiction", "Science"}) {
		t.Fatalf("unexpected categories: %v", categories)
	}
}

func TestCheckAccess(t *testing.T) {
	if err := scanner.CheckAccess(t.TempDir()); err != nil {
		t.Fatalf("CheckAccess failed on readable dir: %v", err)
	}
	if err := scanner.CheckAccess(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
