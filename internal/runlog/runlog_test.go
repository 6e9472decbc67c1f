package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			ID:         string(rune('a' + i)),
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
			Status:     "ok",
			Activities: 10 + i,
			Wellness:   5,
			Sources:    "intervals,strava",
		}
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want limit 2", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("order = %s, %s; want newest first", runs[0].ID, runs[1].ID)
	}
	if runs[0].Activities != 12 {
		t.Fatalf("activities = %d", runs[0].Activities)
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("started_at = %v", runs[0].StartedAt)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	runs, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent after reopen: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("unexpected runs: %v", runs)
	}
}
