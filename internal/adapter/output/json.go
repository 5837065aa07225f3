package output

import (
	"encoding/json"
	"io"

	"nlon/internal/domain"
)

type datasetJSON struct {
	Dataset string              `json:"dataset"`
	Source  string              `json:"source,omitempty"`
	Labels  []string            `json:"labels,omitempty"`
	Rows    []domain.FeatureRow `json:"rows"`
}

// JSONSink buffers every table and writes one indented JSON array on Close.
type JSONSink struct {
	w        io.Writer
	datasets []datasetJSON
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

func (s *JSONSink) Write(ds domain.Dataset, table domain.FeatureTable) error {
	d := datasetJSON{
		Dataset: ds.Name,
		Source:  ds.Path,
		Rows:    table.Rows,
	}
	if ds.HasLabels() {
		d.Labels = ds.Labels
	}
	if d.Rows == nil {
		d.Rows = []domain.FeatureRow{}
	}
	s.datasets = append(s.datasets, d)
	return nil
}

func (s *JSONSink) Close() error {
	if s.datasets == nil {
		s.datasets = []datasetJSON{}
	}
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.datasets)
}
