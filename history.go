package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
)

const (
	historyObject   = "runs"
	historyProperty = "latest"
)

// RunRecord is a persisted comparison run
type RunRecord struct {
	Finished time.Time    `json:"finished"`
	Seed     int64        `json:"seed"`
	Steps    []StepReport `json:"steps"`
}

// History persists run records in the per-user application data directory
type History struct {
	manager *gdata.Manager
}

// OpenHistory opens (or creates) the data store for appName
func OpenHistory(appName string) (*History, error) {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return &History{manager: manager}, nil
}

// Save replaces the stored record with rec
func (h *History) Save(rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := h.manager.SaveObjectProp(historyObject, historyProperty, data); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	log.Printf("💾 Saved run with %d steps (%d bytes)\n", len(rec.Steps), len(data))
	return nil
}

// Load returns the stored record; ok is false when nothing was saved yet
func (h *History) Load() (rec RunRecord, ok bool, err error) {
	if !h.manager.ObjectPropExists(historyObject, historyProperty) {
		return RunRecord{}, false, nil
	}
	data, err := h.manager.LoadObjectProp(historyObject, historyProperty)
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("failed to load run: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return RunRecord{}, false, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return rec, true, nil
}
