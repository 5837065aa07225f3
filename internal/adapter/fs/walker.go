package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Finder resolves dataset arguments and glob patterns to files.
type Finder struct {
	includes []string
	excludes []string
}

func NewFinder(includes, excludes []string) *Finder {
	if len(includes) == 0 {
		includes = []string{"**/*.csv"}
	}
	return &Finder{
		includes: includes,
		excludes: excludes,
	}
}

// Find returns the sorted, de-duplicated absolute paths matching patterns
// under root. An empty pattern list falls back to the configured includes.
// A pattern naming an existing file (relative to root) is taken as-is,
// even if excluded.
func (f *Finder) Find(root string, patterns []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = f.includes
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	fsys := os.DirFS(root)
	for _, pattern := range patterns {
		candidate := pattern
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(root, candidate)
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			add(filepath.Clean(candidate))
			continue
		}

		rel := filepath.ToSlash(pattern)
		if filepath.IsAbs(pattern) {
			r, err := filepath.Rel(root, pattern)
			if err != nil {
				return nil, err
			}
			rel = filepath.ToSlash(r)
		}
		if !doublestar.ValidatePattern(rel) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}

		matches, err := doublestar.Glob(fsys, rel, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if f.shouldExclude(m) {
				continue
			}
			add(filepath.Join(root, filepath.FromSlash(m)))
		}
	}

	sort.Strings(files)
	return files, nil
}

func (f *Finder) shouldExclude(path string) bool {
	for _, pattern := range f.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
