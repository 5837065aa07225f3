package port

import "nlon/internal/domain"

// TableSink receives generated feature tables, one call per dataset.
type TableSink interface {
	// Write emits the table computed for ds. Row i of table belongs to
	// ds.Texts[i] (and ds.Labels[i] when present).
	Write(ds domain.Dataset, table domain.FeatureTable) error

	// Close flushes buffered output.
	Close() error
}
