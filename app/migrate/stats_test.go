package migrate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestStatsCounters(t *testing.T) {
	stats := NewStats()

	stats.AddDiscovered(10)
	stats.AddSucceeded(6)
	stats.AddFailed(1)
	stats.AddSkipped(3)

	if got := stats.AddProcessed(4); got != 4 {
		t.Errorf("Expected running total 4, got %d", got)
	}
	if got := stats.AddProcessed(3); got != 7 {
		t.Errorf("Expected running total 7, got %d", got)
	}

	discovered, processed, succeeded, failed, skipped := stats.Snapshot()
	if discovered != 10 || processed != 7 || succeeded != 6 || failed != 1 || skipped != 3 {
		t.Errorf("Unexpected snapshot: %d %d %d %d %d", discovered, processed, succeeded, failed, skipped)
	}
}

func TestStatsConcurrentUpdates(t *testing.T) {
	stats := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.AddSucceeded(1)
			stats.AddProcessed(1)
		}()
	}
	wg.Wait()

	_, processed, succeeded, _, _ := stats.Snapshot()
	if processed != 50 || succeeded != 50 {
		t.Errorf("Expected 50/50, got %d/%d", processed, succeeded)
	}
}

func TestErrorLogWriteFile(t *testing.T) {
	log := NewErrorLog()
	log.Append("A Post", "a-post", errors.New("duplicate slug"))
	log.Append("B Post", "b-post", errors.New("connection reset"))

	path := filepath.Join(t.TempDir(), "errors.json")
	if err := log.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var records []ErrorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Slug != "a-post" || records[0].Error != "duplicate slug" {
		t.Errorf("Unexpected record: %+v", records[0])
	}
}
