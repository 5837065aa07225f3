package port

import "nlon/internal/domain"

// DatasetReader loads the text column of a dataset file.
type DatasetReader interface {
	Read(path string) (domain.Dataset, error)
}
