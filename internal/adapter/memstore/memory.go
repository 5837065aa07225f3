package memstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"nlon/internal/domain"
)

// MemoryStore is an in-memory run store.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]domain.Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]domain.Run),
	}
}

func (s *MemoryStore) PutRun(run domain.Run) error {
	if run.ID == "" {
		return errors.New("run id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	run.Rows = run.Table.Len()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(id string) (domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return domain.Run{}, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	return run, nil
}

// ListRuns returns runs oldest first. Unlike the bolt store, tables are
// included.
func (s *MemoryStore) ListRuns() ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	return runs, nil
}

func (s *MemoryStore) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
