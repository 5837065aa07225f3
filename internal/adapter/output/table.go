package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"nlon/internal/domain"
)

const maxTextWidth = 40

// TableSink renders each feature table for the terminal.
type TableSink struct {
	w io.Writer
}

func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{w: w}
}

func (s *TableSink) Write(ds domain.Dataset, ft domain.FeatureTable) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	if ds.Name != "" {
		tw.SetTitle(ds.Name)
	}

	cols := header()[1:] // dataset is the title
	headerRow := make(table.Row, len(cols))
	for i, c := range cols {
		headerRow[i] = c
	}
	tw.AppendHeader(headerRow)

	for i, row := range ft.Rows {
		r := table.Row{i, label(ds, i)}
		for _, v := range row.Values() {
			r = append(r, FormatValue(v))
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		}
		if c == domain.ColText || c == "label" {
			cfg.Align = text.AlignLeft
		}
		if c == domain.ColText {
			cfg.WidthMax = maxTextWidth
			cfg.WidthMaxEnforcer = text.Trim
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	_, err := fmt.Fprintln(s.w, tw.Render())
	return err
}

func (s *TableSink) Close() error {
	return nil
}
