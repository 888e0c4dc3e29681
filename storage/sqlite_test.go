package storage

import (
	"path/filepath"
	"testing"
	"time"

	"zillow_scraper/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := openTestStore(t)

	target := "https://www.zillow.com/homes/Mountain-View-CA_rb/"
	started := time.Now().Truncate(time.Second)
	run := &models.ScrapeRun{
		Target:    target,
		Kind:      "search",
		StartedAt: started,
		Status:    models.RunStatusRunning,
	}

	runID, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("create run failed: %v", err)
	}
	if runID == 0 {
		t.Fatal("expected a run id")
	}
	run.ID = runID

	l := models.NewListing()
	l.Address = "748 Cottage Ct, Mountain View, CA 94043"
	l.Price = "$1,188,000"
	if err := store.SaveListings(runID, []models.Listing{l}); err != nil {
		t.Fatalf("save listings failed: %v", err)
	}

	finished := time.Now()
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	run.ListingsFound = 1
	if err := store.UpdateRun(run); err != nil {
		t.Fatalf("update run failed: %v", err)
	}

	last, err := store.GetLastRunTime(target)
	if err != nil {
		t.Fatalf("last run lookup failed: %v", err)
	}
	if last.IsZero() {
		t.Fatal("expected a last run time")
	}
	if last.Before(started.Add(-time.Second)) {
		t.Errorf("last run time %s predates the run start %s", last, started)
	}
}

func TestSQLiteStore_GetLastRunTime_NoRuns(t *testing.T) {
	store := openTestStore(t)

	last, err := store.GetLastRunTime("https://www.zillow.com/homes/Nowhere_rb/")
	if err != nil {
		t.Fatalf("last run lookup failed: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("expected zero time for an unseen target, got %s", last)
	}
}

func TestSQLiteStore_RecentLogs(t *testing.T) {
	store := openTestStore(t)

	run := &models.ScrapeRun{
		Target:    "748 Cottage Ct, Mountain View, CA 94043",
		Kind:      "detail",
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("create run failed: %v", err)
	}

	if err := store.Log(&runID, models.LogLevelInfo, "search resolved"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := store.Log(&runID, models.LogLevelError, "extraction failed"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := store.Log(nil, models.LogLevelWarn, "unrelated line"); err != nil {
		t.Fatalf("log failed: %v", err)
	}

	logs, err := store.RecentLogs(runID, 10)
	if err != nil {
		t.Fatalf("recent logs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log lines for the run, got %d", len(logs))
	}
	if logs[0].Message != "extraction failed" || logs[0].Level != models.LogLevelError {
		t.Errorf("expected newest line first, got %+v", logs[0])
	}
	if logs[1].Message != "search resolved" {
		t.Errorf("unexpected second line %+v", logs[1])
	}
	if logs[0].RunID == nil || *logs[0].RunID != runID {
		t.Errorf("unexpected run id %v", logs[0].RunID)
	}
}
