package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
grid:
  height: 30
  width: 40
start: {row: 1, col: 2}
goal: {row: 25, col: 35}
steps: 3
seed: 42
search:
  timeout: 250ms
  maxExpansions: 5000
  parallelism: 4
agents:
  - name: scout
    start: {row: 0, col: 39}
    goal: {row: 29, col: 0}
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Grid.Height != 30 || cfg.Grid.Width != 40 {
		t.Errorf("grid = %dx%d, want 30x40", cfg.Grid.Height, cfg.Grid.Width)
	}
	if cfg.Start != (Cell{1, 2}) || cfg.Goal != (Cell{25, 35}) {
		t.Errorf("endpoints = %v -> %v", cfg.Start, cfg.Goal)
	}
	if cfg.Search.Timeout != 250*time.Millisecond {
		t.Errorf("timeout = %s, want 250ms", cfg.Search.Timeout)
	}
	if cfg.Search.MaxExpansions != 5000 || cfg.Search.Parallelism != 4 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if len(cfg.Agents) != 1 || cfg.Agents[0].Name != "scout" || cfg.Agents[0].Goal != (Cell{29, 0}) {
		t.Errorf("agents = %+v", cfg.Agents)
	}

	// Unset sections keep their defaults
	defaults := DefaultConfig()
	if cfg.Obstacles != defaults.Obstacles {
		t.Errorf("obstacles = %+v, want defaults %+v", cfg.Obstacles, defaults.Obstacles)
	}
	if cfg.Search.LineOfSightCap != DefaultLineOfSightCap {
		t.Errorf("lineOfSightCap = %f, want %f", cfg.Search.LineOfSightCap, DefaultLineOfSightCap)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		if _, err := LoadConfig(writeConfig(t, "grid: [1, 2\n")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("goal outside grid", func(t *testing.T) {
		path := writeConfig(t, "grid: {height: 10, width: 10}\ngoal: {row: 10, col: 3}\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("error = %v, want ErrOutOfBounds", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.Grid.Width = 0 }, true},
		{"inverted square sizes", func(c *Config) { c.Obstacles.MinSize = 8; c.Obstacles.MaxSize = 3 }, true},
		{"no squares ignores sizes", func(c *Config) { c.Obstacles.Squares = 0; c.Obstacles.MinSize = 0 }, false},
		{"zero disc radius", func(c *Config) { c.Obstacles.DiscRadius = 0 }, true},
		{"negative steps", func(c *Config) { c.Steps = -1 }, true},
		{"negative budget", func(c *Config) { c.Search.MaxExpansions = -5 }, true},
		{"agent off grid", func(c *Config) {
			c.Agents = []Agent{{Name: "x", Start: Cell{0, 0}, Goal: Cell{0, 100}}}
		}, true},
		{"file defers bounds", func(c *Config) { c.Grid.File = "map.txt"; c.Goal = Cell{500, 500} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
