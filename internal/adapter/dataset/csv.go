package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"nlon/internal/domain"
)

// Options controls how a dataset CSV is parsed.
type Options struct {
	TextColumn  string
	LabelColumn string   // Optional; a missing label column yields an unlabeled dataset
	NullValues  []string // Cells equal to one of these become ""
	Encoding    string
	Delimiter   string
}

// CSVReader reads one text column (and optionally a label column) from
// CSV files with a header row.
type CSVReader struct {
	textColumn  string
	labelColumn string
	nulls       map[string]struct{}
	encoding    encoding.Encoding
	comma       rune
}

// NewCSVReader validates opts and creates a reader.
func NewCSVReader(opts Options) (*CSVReader, error) {
	if strings.TrimSpace(opts.TextColumn) == "" {
		return nil, errors.New("text column must not be empty")
	}

	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	comma := ','
	if opts.Delimiter != "" {
		if opts.Delimiter == `\t` {
			opts.Delimiter = "\t"
		}
		r, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) || r == utf8.RuneError {
			return nil, fmt.Errorf("delimiter must be a single character: %q", opts.Delimiter)
		}
		comma = r
	}

	nulls := make(map[string]struct{}, len(opts.NullValues))
	for _, v := range opts.NullValues {
		nulls[v] = struct{}{}
	}

	return &CSVReader{
		textColumn:  opts.TextColumn,
		labelColumn: opts.LabelColumn,
		nulls:       nulls,
		encoding:    enc,
		comma:       comma,
	}, nil
}

// Read loads the dataset stored at path. The dataset is named after the file.
func (r *CSVReader) Read(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ds, err := r.ReadFrom(name, f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// ReadFrom parses a dataset from src.
func (r *CSVReader) ReadFrom(name string, src io.Reader) (domain.Dataset, error) {
	cr := csv.NewReader(transform.NewReader(src, r.encoding.NewDecoder()))
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Dataset{}, errors.New("dataset is empty, header row required")
		}
		return domain.Dataset{}, fmt.Errorf("failed to read header: %w", err)
	}

	textIdx, labelIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch {
		case col == r.textColumn && textIdx < 0:
			textIdx = i
		case r.labelColumn != "" && col == r.labelColumn && labelIdx < 0:
			labelIdx = i
		}
	}
	if textIdx < 0 {
		return domain.Dataset{}, fmt.Errorf("text column %q not found in header %v", r.textColumn, header)
	}

	ds := domain.Dataset{Name: name}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("failed to read record: %w", err)
		}
		ds.Texts = append(ds.Texts, r.cell(record, textIdx))
		if labelIdx >= 0 {
			ds.Labels = append(ds.Labels, r.cell(record, labelIdx))
		}
	}

	return ds, nil
}

// cell returns record[idx], substituting "" for missing and null cells.
func (r *CSVReader) cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	v := record[idx]
	if _, isNull := r.nulls[v]; isNull {
		return ""
	}
	return v
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return xunicode.UTF8BOM, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}
