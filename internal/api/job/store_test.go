// internal/api/job/store_test.go
package job

import (
	"testing"
	"time"
)

func TestStore_StartAndGet(t *testing.T) {
	store := NewStore(100, time.Hour)

	id := store.Start()
	if id == "" {
		t.Fatal("expected run ID")
	}

	run, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run.Status != StatusPending {
		t.Errorf("expected pending, got %s", run.Status)
	}
}

func TestStore_Progress(t *testing.T) {
	store := NewStore(100, time.Hour)
	id := store.Start()

	store.Progress(id, 60, "Analyzing stocks...")

	run, _ := store.Get(id)
	if run.Status != StatusRunning {
		t.Errorf("expected running, got %s", run.Status)
	}
	if run.Progress != 60 {
		t.Errorf("expected 60, got %d", run.Progress)
	}
	if run.ProgressText != "Analyzing stocks..." {
		t.Errorf("unexpected progress text %q", run.ProgressText)
	}
}

func TestStore_Complete(t *testing.T) {
	store := NewStore(100, time.Hour)
	id := store.Start()

	store.Complete(id, 12, 3)

	run, _ := store.Get(id)
	if run.Status != StatusComplete || run.Progress != 100 {
		t.Errorf("expected complete at 100, got %s at %d", run.Status, run.Progress)
	}
	if run.ResultCount != 12 || run.StrongBuys != 3 {
		t.Errorf("unexpected counts %d/%d", run.ResultCount, run.StrongBuys)
	}
	if !run.Done() {
		t.Error("expected run to be done")
	}
}

func TestStore_Fail(t *testing.T) {
	store := NewStore(100, time.Hour)
	id := store.Start()

	store.Fail(id, "HTTP error! status: 500")

	run, _ := store.Get(id)
	if run.Status != StatusFailed {
		t.Errorf("expected failed, got %s", run.Status)
	}
	if run.Error != "HTTP error! status: 500" {
		t.Errorf("unexpected error %q", run.Error)
	}
}

func TestStore_MaxSize(t *testing.T) {
	store := NewStore(2, time.Hour)

	first := store.Start()
	store.Start()
	store.Start() // evicts first

	if _, err := store.Get(first); err == nil {
		t.Error("expected first run to be evicted")
	}
	if n := len(store.List()); n != 2 {
		t.Errorf("expected 2 runs, got %d", n)
	}
}

func TestStore_TTLEvictsFinishedRuns(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(10, time.Minute)
	store.now = func() time.Time { return now }

	done := store.Start()
	store.Complete(done, 1, 0)
	running := store.Start()
	store.Progress(running, 20, "Fetching stock list...")

	now = now.Add(2 * time.Minute)
	store.Start()

	if _, err := store.Get(done); err == nil {
		t.Error("expected finished run to expire")
	}
	if _, err := store.Get(running); err != nil {
		t.Error("unfinished run must not expire")
	}
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(100, time.Hour)

	if _, err := store.Get("nonexistent"); err == nil {
		t.Error("expected error for nonexistent run")
	}

	// updates to unknown ids are ignored
	store.Progress("nonexistent", 20, "x")
}

func TestStore_LatestAndList(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(100, time.Hour)
	store.now = func() time.Time { now = now.Add(time.Second); return now }

	if _, ok := store.Latest(); ok {
		t.Error("expected no latest run")
	}

	store.Start()
	second := store.Start()

	latest, ok := store.Latest()
	if !ok || latest.ID != second {
		t.Errorf("expected latest %s, got %+v", second, latest)
	}

	runs := store.List()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second {
		t.Error("expected newest run first")
	}
}
