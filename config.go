package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a replanning run
type Config struct {
	Grid      GridConfig     `yaml:"grid"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Start     Cell           `yaml:"start"`
	Goal      Cell           `yaml:"goal"`
	Agents    []Agent        `yaml:"agents"`
	Steps     int            `yaml:"steps"`
	Seed      int64          `yaml:"seed"`
	Search    SearchConfig   `yaml:"search"`
	Output    OutputConfig   `yaml:"output"`
	Server    ServerConfig   `yaml:"server"`
}

// GridConfig sets the grid size, or a file holding a static base map
type GridConfig struct {
	Height int    `yaml:"height"`
	Width  int    `yaml:"width"`
	File   string `yaml:"file"`
}

// ObstacleConfig controls the regenerating obstacle field
type ObstacleConfig struct {
	Squares            int  `yaml:"squares"`
	MinSize            int  `yaml:"minSize"`
	MaxSize            int  `yaml:"maxSize"`
	Discs              int  `yaml:"discs"`
	DiscRadius         int  `yaml:"discRadius"`
	KeepEndpointsClear bool `yaml:"keepEndpointsClear"`
}

// SearchConfig holds planner limits
type SearchConfig struct {
	LineOfSightCap float64       `yaml:"lineOfSightCap"`
	MaxExpansions  int           `yaml:"maxExpansions"`
	Timeout        time.Duration `yaml:"timeout"`
	Parallelism    int           `yaml:"parallelism"`
}

// OutputConfig names optional artifacts written after a run
type OutputConfig struct {
	PNGDir  string `yaml:"pngDir"`
	GeoJSON string `yaml:"geojson"`
	Compact bool   `yaml:"compact"`
	History string `yaml:"history"` // gdata app name; empty disables history
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig mirrors the reference comparison run: a 100x100 grid with
// 40 moving squares of size 5-10, 5 static discs of radius 5, and 10
// regeneration steps from (0,0) to (90,80).
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{Height: 100, Width: 100},
		Obstacles: ObstacleConfig{
			Squares:            40,
			MinSize:            5,
			MaxSize:            10,
			Discs:              5,
			DiscRadius:         5,
			KeepEndpointsClear: true,
		},
		Start: Cell{Row: 0, Col: 0},
		Goal:  Cell{Row: 90, Col: 80},
		Steps: 10,
		Search: SearchConfig{
			LineOfSightCap: DefaultLineOfSightCap,
			Parallelism:    1,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks sizes and that every endpoint lies inside the grid.
// When Grid.File is set the bounds are checked later against the loaded map.
func (c *Config) Validate() error {
	if c.Grid.File == "" {
		if c.Grid.Height <= 0 || c.Grid.Width <= 0 {
			return fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Height, c.Grid.Width)
		}
		if err := c.ValidateEndpoints(c.Grid.Height, c.Grid.Width); err != nil {
			return err
		}
	}

	o := c.Obstacles
	if o.Squares < 0 || o.Discs < 0 {
		return fmt.Errorf("obstacle counts must be >= 0, got squares=%d discs=%d", o.Squares, o.Discs)
	}
	if o.Squares > 0 && (o.MinSize < 1 || o.MaxSize < o.MinSize) {
		return fmt.Errorf("square sizes must satisfy 1 <= minSize <= maxSize, got %d..%d", o.MinSize, o.MaxSize)
	}
	if o.Discs > 0 && o.DiscRadius < 1 {
		return fmt.Errorf("discRadius must be >= 1, got %d", o.DiscRadius)
	}

	if c.Steps < 0 {
		return fmt.Errorf("steps must be >= 0, got %d", c.Steps)
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("search.maxExpansions must be >= 0, got %d", c.Search.MaxExpansions)
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("search.timeout must be >= 0, got %s", c.Search.Timeout)
	}
	return nil
}

// ValidateEndpoints checks start, goal and agent cells against a grid size
func (c *Config) ValidateEndpoints(height, width int) error {
	inside := func(cell Cell) bool {
		return cell.Row >= 0 && cell.Row < height && cell.Col >= 0 && cell.Col < width
	}
	if !inside(c.Start) {
		return fmt.Errorf("start %v: %w", c.Start, ErrOutOfBounds)
	}
	if !inside(c.Goal) {
		return fmt.Errorf("goal %v: %w", c.Goal, ErrOutOfBounds)
	}
	for i, a := range c.Agents {
		if !inside(a.Start) || !inside(a.Goal) {
			return fmt.Errorf("agent %d (%s) %v -> %v: %w", i, a.Name, a.Start, a.Goal, ErrOutOfBounds)
		}
	}
	return nil
}

// SearchOptions converts the search section into planner options
func (c *Config) SearchOptions() []Option {
	return []Option{
		WithLineOfSightCap(c.Search.LineOfSightCap),
		WithMaxExpansions(c.Search.MaxExpansions),
	}
}
