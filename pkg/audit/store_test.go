package audit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "audit.db")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndGetRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec := &RunRecord{
		RunID:        "run-123",
		StartedAt:    time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Duration:     42 * time.Millisecond,
		RootPath:     "/configs/experiment.yml",
		DatasetNames: []string{"mmidb", "bci_iv"},
		Skipped: []SkippedDataset{
			{Name: "broken", Error: "tlen: field is required"},
		},
	}
	if err := store.RecordRun(ctx, rec); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	got, err := store.GetRun(ctx, "run-123")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if got.RunID != rec.RunID || got.RootPath != rec.RootPath {
		t.Errorf("got = %+v, want %+v", got, rec)
	}
	if !got.StartedAt.Equal(rec.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, rec.StartedAt)
	}
	if got.Duration != rec.Duration {
		t.Errorf("Duration = %v, want %v", got.Duration, rec.Duration)
	}
	if len(got.DatasetNames) != 2 || got.DatasetNames[0] != "mmidb" {
		t.Errorf("DatasetNames = %v, want declaration order preserved", got.DatasetNames)
	}
	if len(got.Skipped) != 1 || got.Skipped[0].Name != "broken" {
		t.Errorf("Skipped = %v", got.Skipped)
	}
}

func TestStore_GetRunNotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.GetRun(context.Background(), "no-such-run")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
}

func TestStore_RecentRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := &RunRecord{
			RunID:        fmt.Sprintf("run-%d", i),
			StartedAt:    base.Add(time.Duration(i) * time.Minute),
			RootPath:     "/configs/experiment.yml",
			DatasetNames: []string{},
		}
		if err := store.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun(%d) failed: %v", i, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	for i, wantID := range []string{"run-4", "run-3", "run-2"} {
		if runs[i].RunID != wantID {
			t.Errorf("runs[%d].RunID = %q, want %q", i, runs[i].RunID, wantID)
		}
	}
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec := &RunRecord{
		RunID:        "dup",
		StartedAt:    time.Now(),
		RootPath:     "/c.yml",
		DatasetNames: []string{},
	}
	if err := store.RecordRun(ctx, rec); err != nil {
		t.Fatalf("first RecordRun() failed: %v", err)
	}
	if err := store.RecordRun(ctx, rec); err == nil {
		t.Error("second RecordRun() with same run_id succeeded, want error")
	}
}

func TestOpen_NilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("Open(nil) succeeded, want error")
	}
}
