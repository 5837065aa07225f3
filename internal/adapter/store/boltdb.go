package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"nlon/internal/domain"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = domain.ErrRunNotFound

var (
	bucketRuns        = []byte("runs")
	bucketTables      = []byte("tables")
	bucketDatasetRuns = []byte("dataset_runs")
	bucketMeta        = []byte("meta")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketRuns, bucketTables, bucketDatasetRuns, bucketMeta}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

type runMeta struct {
	Dataset       string    `json:"dataset"`
	Source        string    `json:"source"`
	Tokenizer     string    `json:"tokenizer"`
	Stopwords     int       `json:"stopwords"`
	CreatedAt     time.Time `json:"created_at"`
	SchemaVersion int       `json:"schema_version"`
	Rows          int       `json:"rows"`
}

type tableBlob struct {
	Labels []string            `json:"labels,omitempty"`
	Rows   []domain.FeatureRow `json:"rows"`
}

// PutRun stores a run, replacing any run with the same ID.
func (s *BoltStore) PutRun(run domain.Run) error {
	if run.ID == "" {
		return errors.New("run id must not be empty")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := runMeta{
			Dataset:       run.Dataset,
			Source:        run.Source,
			Tokenizer:     run.Tokenizer,
			Stopwords:     run.Stopwords,
			CreatedAt:     run.CreatedAt,
			SchemaVersion: run.SchemaVersion,
			Rows:          run.Table.Len(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketRuns).Put([]byte(run.ID), data); err != nil {
			return err
		}

		blob, err := json.Marshal(tableBlob{Labels: run.Labels, Rows: run.Table.Rows})
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketTables).Put([]byte(run.ID), blob); err != nil {
			return err
		}

		datasetRuns := tx.Bucket(bucketDatasetRuns)
		var runIDs []string
		if existing := datasetRuns.Get([]byte(run.Dataset)); existing != nil {
			if err := json.Unmarshal(existing, &runIDs); err != nil {
				return err
			}
		}
		for _, id := range runIDs {
			if id == run.ID {
				return nil
			}
		}
		runIDs = append(runIDs, run.ID)
		idsData, err := json.Marshal(runIDs)
		if err != nil {
			return err
		}
		return datasetRuns.Put([]byte(run.Dataset), idsData)
	})
}

// GetRun returns a run including its feature table.
func (s *BoltStore) GetRun(id string) (domain.Run, error) {
	var run domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		var meta runMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		run = fromMeta(id, meta)

		if blob := tx.Bucket(bucketTables).Get([]byte(id)); blob != nil {
			var tb tableBlob
			if err := json.Unmarshal(blob, &tb); err != nil {
				return fmt.Errorf("decode table %s: %w", id, err)
			}
			run.Labels = tb.Labels
			run.Table = domain.FeatureTable{Rows: tb.Rows}
		}
		return nil
	})
	return run, err
}

// ListRuns returns run metadata, without tables, oldest first.
func (s *BoltStore) ListRuns() ([]domain.Run, error) {
	var runs []domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var meta runMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			runs = append(runs, fromMeta(string(k), meta))
			return nil
		})
	})
	sortRuns(runs)
	return runs, err
}

// RunsByDataset returns the metadata of every run generated for a dataset.
func (s *BoltStore) RunsByDataset(dataset string) ([]domain.Run, error) {
	var runs []domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDatasetRuns).Get([]byte(dataset))
		if data == nil {
			return nil
		}
		var runIDs []string
		if err := json.Unmarshal(data, &runIDs); err != nil {
			return err
		}
		runBucket := tx.Bucket(bucketRuns)
		for _, id := range runIDs {
			v := runBucket.Get([]byte(id))
			if v == nil {
				continue
			}
			var meta runMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				continue
			}
			runs = append(runs, fromMeta(id, meta))
		}
		return nil
	})
	sortRuns(runs)
	return runs, err
}

// DeleteRun removes a run and its table.
func (s *BoltStore) DeleteRun(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		runBucket := tx.Bucket(bucketRuns)
		data := runBucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		var meta runMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}

		if err := runBucket.Delete([]byte(id)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketTables).Delete([]byte(id)); err != nil {
			return err
		}

		datasetRuns := tx.Bucket(bucketDatasetRuns)
		existing := datasetRuns.Get([]byte(meta.Dataset))
		if existing == nil {
			return nil
		}
		var runIDs []string
		if err := json.Unmarshal(existing, &runIDs); err != nil {
			return err
		}
		kept := runIDs[:0]
		for _, rid := range runIDs {
			if rid != id {
				kept = append(kept, rid)
			}
		}
		if len(kept) == 0 {
			return datasetRuns.Delete([]byte(meta.Dataset))
		}
		idsData, err := json.Marshal(kept)
		if err != nil {
			return err
		}
		return datasetRuns.Put([]byte(meta.Dataset), idsData)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func fromMeta(id string, meta runMeta) domain.Run {
	return domain.Run{
		ID:            id,
		Dataset:       meta.Dataset,
		Source:        meta.Source,
		Tokenizer:     meta.Tokenizer,
		Stopwords:     meta.Stopwords,
		CreatedAt:     meta.CreatedAt,
		SchemaVersion: meta.SchemaVersion,
		Rows:          meta.Rows,
	}
}

func sortRuns(runs []domain.Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
}
