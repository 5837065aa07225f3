package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"nlon/internal/domain"
)

// CSVSink writes all tables into one CSV stream with a single header row.
type CSVSink struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (s *CSVSink) Write(ds domain.Dataset, table domain.FeatureTable) error {
	if !s.wroteHeader {
		if err := s.w.Write(header()); err != nil {
			return err
		}
		s.wroteHeader = true
	}

	for i, row := range table.Rows {
		record := []string{ds.Name, strconv.Itoa(i), label(ds, i)}
		for _, v := range row.Values() {
			record = append(record, FormatValue(v))
		}
		if err := s.w.Write(record); err != nil {
			return err
		}
	}

	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	return s.w.Error()
}
