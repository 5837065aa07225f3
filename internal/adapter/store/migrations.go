package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"
	"nlon/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var (
	keySchemaVersion = []byte("schema_version")
	keyColumnsHash   = []byte("columns_hash")
)

// SchemaInfo stores schema version and the hash of the feature column set.
type SchemaInfo struct {
	Version     int    `json:"version"`
	ColumnsHash string `json:"columns_hash"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}

		if versionData := b.Get(keySchemaVersion); versionData != nil {
			if err := json.Unmarshal(versionData, &info.Version); err != nil {
				info.Version = 1
			}
		}

		if hashData := b.Get(keyColumnsHash); hashData != nil {
			info.ColumnsHash = string(hashData)
		}

		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)

		versionData, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		if err := b.Put(keySchemaVersion, versionData); err != nil {
			return err
		}

		return b.Put(keyColumnsHash, []byte(info.ColumnsHash))
	})
}

// ComputeColumnsHash hashes the ordered feature column names and types.
// Stored tables no longer decode faithfully when it changes.
func ComputeColumnsHash() string {
	parts := make([]string, len(domain.Columns))
	for i, c := range domain.Columns {
		parts[i] = c.Name + ":" + c.Type.String()
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks if migration or a rebuild is needed.
func (s *BoltStore) CheckMigration() (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	if info.ColumnsHash != "" && info.ColumnsHash != ComputeColumnsHash() {
		result.NeedsRebuild = true
		result.Reason = "feature columns changed"
	}

	return result, nil
}

// Migrate performs any necessary schema migrations.
func (s *BoltStore) Migrate() error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return err
	}

	for v := info.Version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.SetSchemaInfo(&SchemaInfo{
		Version:     CurrentSchemaVersion,
		ColumnsHash: ComputeColumnsHash(),
	})
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 1 && to == 2:
		// v2 indexes runs by dataset
		return s.db.Update(func(tx *bbolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucketDatasetRuns)
			if err != nil {
				return err
			}
			return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
				var meta runMeta
				if err := json.Unmarshal(v, &meta); err != nil {
					return err
				}
				var ids []string
				if existing := b.Get([]byte(meta.Dataset)); existing != nil {
					if err := json.Unmarshal(existing, &ids); err != nil {
						return err
					}
				}
				ids = append(ids, string(k))
				data, err := json.Marshal(ids)
				if err != nil {
					return err
				}
				return b.Put([]byte(meta.Dataset), data)
			})
		})
	default:
		return nil
	}
}

// Clear removes every stored run, keeping schema info.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketTables, bucketDatasetRuns} {
			if tx.Bucket(name) == nil {
				continue
			}
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Prepare brings an opened store up to date, clearing it when stored runs
// can no longer be read. It returns the check result for reporting.
func (s *BoltStore) Prepare() (*MigrationResult, error) {
	result, err := s.CheckMigration()
	if err != nil {
		return nil, err
	}
	if result.NeedsRebuild {
		if err := s.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear run store: %w", err)
		}
	}
	if result.NeedsRebuild || result.NeedsMigration {
		if err := s.Migrate(); err != nil {
			return nil, err
		}
	}
	return result, nil
}
