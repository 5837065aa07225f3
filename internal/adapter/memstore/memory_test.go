package memstore

import (
	"errors"
	"testing"
	"time"

	"nlon/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	now := time.Now()

	first := domain.Run{ID: "b", Dataset: "lucene", CreatedAt: now,
		Table: domain.FeatureTable{Rows: []domain.FeatureRow{{Text: "x"}}}}
	second := domain.Run{ID: "a", Dataset: "lucene", CreatedAt: now.Add(time.Second)}

	for _, r := range []domain.Run{first, second} {
		if err := st.PutRun(r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.GetRun("b")
	if err != nil {
		t.Fatal(err)
	}
	if got.Rows != 1 {
		t.Errorf("expected row count 1, got %d", got.Rows)
	}

	runs, _ := st.ListRuns()
	if len(runs) != 2 || runs[0].ID != "b" {
		t.Errorf("expected oldest first, got %+v", runs)
	}

	if err := st.DeleteRun("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.GetRun("b"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.DeleteRun("b"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.PutRun(domain.Run{}); err == nil {
		t.Error("expected error for empty id")
	}
}
