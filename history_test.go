package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// openTestHistory opens a throwaway store, or returns nil when the platform
// has no usable data directory
func openTestHistory(t *testing.T, testName string) *History {
	appName := fmt.Sprintf("grid_replanner_test_%s_%d", testName, time.Now().UnixNano())
	h, err := OpenHistory(appName)
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return h
}

func TestHistorySaveLoad(t *testing.T) {
	h := openTestHistory(t, "roundtrip")
	if h == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	if _, ok, err := h.Load(); err != nil || ok {
		t.Fatalf("fresh store Load() = ok %v, err %v", ok, err)
	}

	rec := RunRecord{
		Finished: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Seed:     42,
		Steps: []StepReport{
			{Step: 0, BlockedCells: 120, AStar: AlgoReport{Found: true, Cells: 30, Length: 35.5}},
			{Step: 1, BlockedCells: 118, ThetaStar: AlgoReport{Error: "search exceeded expansion budget"}},
		},
	}
	if err := h.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := h.Load()
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if got.Seed != rec.Seed || !got.Finished.Equal(rec.Finished) || len(got.Steps) != 2 {
		t.Errorf("loaded %+v, want %+v", got, rec)
	}
	if got.Steps[1].ThetaStar.Error != rec.Steps[1].ThetaStar.Error {
		t.Errorf("step error not preserved: %q", got.Steps[1].ThetaStar.Error)
	}
}
