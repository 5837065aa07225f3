package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"
	"nlon/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testRun(id, dataset string, created time.Time) domain.Run {
	return domain.Run{
		ID:            id,
		Dataset:       dataset,
		Source:        "/data/" + dataset + ".csv",
		Tokenizer:     "whitespace",
		Stopwords:     543,
		CreatedAt:     created,
		SchemaVersion: CurrentSchemaVersion,
		Labels:        []string{"NL", "NOT"},
		Table: domain.FeatureTable{Rows: []domain.FeatureRow{
			{Text: "Hello World", TextLength: 11, CapsCount: 2, WordsCount: 2, StopwordsRatio: 0.5},
			{Text: "foo();", TextLength: 6, WordsCount: 1, EndsWithCodeChar: true},
		}},
	}
}

func TestBoltStore_PutGetRun(t *testing.T) {
	st := openTestStore(t)
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	run := testRun("run-1", "kubernetes", created)

	if err := st.PutRun(run); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := st.GetRun("run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Dataset != "kubernetes" || got.Tokenizer != "whitespace" || got.Stopwords != 543 {
		t.Errorf("unexpected metadata %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if got.Rows != 2 || got.Table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d/%d", got.Rows, got.Table.Len())
	}
	if got.Table.Rows[0] != run.Table.Rows[0] || got.Table.Rows[1] != run.Table.Rows[1] {
		t.Errorf("rows not round-tripped: %+v", got.Table.Rows)
	}
	if len(got.Labels) != 2 || got.Labels[1] != "NOT" {
		t.Errorf("labels not round-tripped: %v", got.Labels)
	}
}

func TestBoltStore_GetRun_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetRun("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.DeleteRun("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on delete, got %v", err)
	}
}

func TestBoltStore_PutRun_EmptyID(t *testing.T) {
	st := openTestStore(t)
	if err := st.PutRun(domain.Run{Dataset: "x"}); err == nil {
		t.Error("expected error for empty run id")
	}
}

func TestBoltStore_ListAndDelete(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	runs := []domain.Run{
		testRun("b", "lucene", base.Add(2*time.Hour)),
		testRun("a", "lucene", base.Add(time.Hour)),
		testRun("c", "mozilla", base),
	}
	for _, r := range runs {
		if err := st.PutRun(r); err != nil {
			t.Fatal(err)
		}
	}
	// re-putting must not duplicate the dataset index
	if err := st.PutRun(runs[0]); err != nil {
		t.Fatal(err)
	}

	listed, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(listed))
	}
	if listed[0].ID != "c" || listed[1].ID != "a" || listed[2].ID != "b" {
		t.Errorf("expected oldest first, got %s %s %s", listed[0].ID, listed[1].ID, listed[2].ID)
	}
	if listed[0].Table.Len() != 0 || listed[0].Rows != 2 {
		t.Errorf("listing should carry row count without table: %+v", listed[0])
	}

	lucene, err := st.RunsByDataset("lucene")
	if err != nil {
		t.Fatal(err)
	}
	if len(lucene) != 2 {
		t.Fatalf("expected 2 lucene runs, got %d", len(lucene))
	}

	if err := st.DeleteRun("a"); err != nil {
		t.Fatal(err)
	}
	lucene, _ = st.RunsByDataset("lucene")
	if len(lucene) != 1 || lucene[0].ID != "b" {
		t.Errorf("expected only run b, got %+v", lucene)
	}
	if _, err := st.GetRun("a"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("deleted run still present: %v", err)
	}
}

func TestBoltStore_Prepare(t *testing.T) {
	st := openTestStore(t)

	result, err := st.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration || result.OldVersion != 0 {
		t.Errorf("fresh store should need initialization: %+v", result)
	}

	result, err = st.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if result.NeedsMigration || result.NeedsRebuild {
		t.Errorf("prepared store should be current: %+v", result)
	}

	info, err := st.GetSchemaInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Version != CurrentSchemaVersion || info.ColumnsHash != ComputeColumnsHash() {
		t.Errorf("unexpected schema info %+v", info)
	}
}

func TestBoltStore_Prepare_ColumnsChanged(t *testing.T) {
	st := openTestStore(t)
	if err := st.PutRun(testRun("r1", "kubernetes", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := st.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion, ColumnsHash: "stale"}); err != nil {
		t.Fatal(err)
	}

	result, err := st.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsRebuild {
		t.Fatalf("expected rebuild, got %+v", result)
	}
	runs, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected store to be cleared, got %d runs", len(runs))
	}
}

func TestBoltStore_MigrateV1(t *testing.T) {
	st := openTestStore(t)

	// simulate a v1 store: runs present but no dataset index
	meta, _ := json.Marshal(runMeta{Dataset: "mozilla", Rows: 0})
	err := st.DB().Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketRuns).Put([]byte("old"), meta); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SetSchemaInfo(&SchemaInfo{Version: 1, ColumnsHash: ComputeColumnsHash()}); err != nil {
		t.Fatal(err)
	}

	result, err := st.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration || result.OldVersion != 1 {
		t.Errorf("expected v1 migration, got %+v", result)
	}

	runs, err := st.RunsByDataset("mozilla")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "old" {
		t.Errorf("expected migrated dataset index, got %+v", runs)
	}
}
