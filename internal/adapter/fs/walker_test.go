package fs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("text\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFinder_DefaultIncludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "kubernetes.csv", "data/lucene.csv", "data/notes.txt", ".nlon/cache.csv")

	finder := NewFinder(nil, []string{"**/.nlon/**"})
	files, err := finder.Find(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(root, "data", "lucene.csv"),
		filepath.Join(root, "kubernetes.csv"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestFinder_ExplicitPatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.csv", "b.csv", "sub/c.csv")

	finder := NewFinder([]string{"**/*.csv"}, nil)

	files, err := finder.Find(root, []string{"*.csv", "a.csv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 de-duplicated files, got %v", files)
	}

	explicit := filepath.Join(root, "sub", "c.csv")
	files, err = finder.Find(root, []string{explicit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0] != explicit {
		t.Errorf("expected explicit file, got %v", files)
	}
}

func TestFinder_InvalidPattern(t *testing.T) {
	finder := NewFinder(nil, nil)
	if _, err := finder.Find(t.TempDir(), []string{"[unclosed"}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
