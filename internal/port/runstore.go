package port

import "nlon/internal/domain"

// RunStore persists generated feature tables.
type RunStore interface {
	PutRun(run domain.Run) error

	GetRun(id string) (domain.Run, error)

	ListRuns() ([]domain.Run, error)

	DeleteRun(id string) error

	Close() error
}
