package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadStopwords(t *testing.T) {
	src := "# mysql stopwords without code words\nThe\nis\n\n  some  \nthe\n"

	set, err := ReadStopwords(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Len() != 3 {
		t.Errorf("expected 3 unique stopwords, got %d: %v", set.Len(), set)
	}
	for _, w := range []string{"the", "is", "some"} {
		if !set.Contains(w) {
			t.Errorf("expected %q in set", w)
		}
	}
	if set.Contains("# mysql stopwords without code words") {
		t.Error("comment lines must be skipped")
	}
}

func TestLoadStopwords(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stopwords.txt")
	if err := os.WriteFile(path, []byte("a\nabout\nabove\n"), 0644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadStopwords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 stopwords, got %d", set.Len())
	}

	if _, err := LoadStopwords(filepath.Join(tmpDir, "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
