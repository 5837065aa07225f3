package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"nlon/internal/adapter/analyzer"
)

// LoadStopwords reads a stopword list, one word per line.
func LoadStopwords(path string) (analyzer.StopwordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords: %w", err)
	}
	defer f.Close()

	set, err := ReadStopwords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ReadStopwords parses a stopword list. Words are trimmed and lower-cased;
// blank lines and lines starting with '#' are skipped.
func ReadStopwords(r io.Reader) (analyzer.StopwordSet, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return analyzer.NewStopwordSet(words...), nil
}
