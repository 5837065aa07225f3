package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nlon/internal/domain"
	"nlon/internal/port"
)

// Supported output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatTable  = "table"
	FormatSQLite = "sqlite"
)

// New creates the sink for format. Stream formats write to w; sqlite needs
// a database path.
func New(format string, w io.Writer, path string) (port.TableSink, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return NewCSVSink(w), nil
	case FormatJSON:
		return NewJSONSink(w), nil
	case FormatTable:
		return NewTableSink(w), nil
	case FormatSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite output requires a file path")
		}
		return NewSQLiteSink(path)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// header returns the leading bookkeeping columns followed by every feature.
func header() []string {
	return append([]string{"dataset", "row", "label"}, domain.ColumnNames()...)
}

func label(ds domain.Dataset, i int) string {
	if ds.HasLabels() {
		return ds.Labels[i]
	}
	return ""
}

// FormatValue renders a feature value for text output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
