package main

import (
	"errors"
	"fmt"
)

// Occupancy is the state of a single grid cell
type Occupancy uint8

const (
	Free Occupancy = iota
	Blocked
)

var (
	ErrInvalidOccupancy = errors.New("invalid occupancy value")
	ErrEmptyGrid        = errors.New("grid has no cells")
	ErrRaggedGrid       = errors.New("grid rows have different widths")
)

// ParseOccupancy converts a numeric cell value (0 = free, 1 = blocked).
// Any other value is rejected instead of being treated as free space.
func ParseOccupancy(v int) (Occupancy, error) {
	switch v {
	case 0:
		return Free, nil
	case 1:
		return Blocked, nil
	}
	return Free, fmt.Errorf("%w: %d", ErrInvalidOccupancy, v)
}

// Cell is a (row, col) grid coordinate
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// GridMap is a read-only occupancy grid. Dimensions never change after
// construction and searches never mutate it.
type GridMap struct {
	height, width int
	cells         []Occupancy
}

// NewGridMap builds a grid from rows of occupancy values. The input is copied.
func NewGridMap(rows [][]Occupancy) (*GridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	width := len(rows[0])
	g := &GridMap{
		height: len(rows),
		width:  width,
		cells:  make([]Occupancy, 0, len(rows)*width),
	}
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedGrid, r, len(row), width)
		}
		for c, v := range row {
			if v != Free && v != Blocked {
				return nil, fmt.Errorf("%w: %d at %v", ErrInvalidOccupancy, v, Cell{r, c})
			}
		}
		g.cells = append(g.cells, row...)
	}
	return g, nil
}

// NewGridMapFromValues builds a grid from numeric 0/1 values
func NewGridMapFromValues(values [][]int) (*GridMap, error) {
	rows := make([][]Occupancy, len(values))
	for r, row := range values {
		rows[r] = make([]Occupancy, len(row))
		for c, v := range row {
			occ, err := ParseOccupancy(v)
			if err != nil {
				return nil, fmt.Errorf("cell %v: %w", Cell{r, c}, err)
			}
			rows[r][c] = occ
		}
	}
	return NewGridMap(rows)
}

// NewEmptyGridMap returns an all-free grid of the given size
func NewEmptyGridMap(height, width int) (*GridMap, error) {
	if height <= 0 || width <= 0 {
		return nil, ErrEmptyGrid
	}
	return &GridMap{
		height: height,
		width:  width,
		cells:  make([]Occupancy, height*width),
	}, nil
}

func (g *GridMap) Height() int { return g.height }
func (g *GridMap) Width() int  { return g.width }

// IsValid reports whether c lies inside the grid bounds
func (g *GridMap) IsValid(c Cell) bool {
	return c.Row >= 0 && c.Row < g.height && c.Col >= 0 && c.Col < g.width
}

// IsBlocked reports whether c is an obstacle. Callers check IsValid first.
func (g *GridMap) IsBlocked(c Cell) bool {
	return g.cells[g.index(c)] == Blocked
}

// At returns the occupancy of c
func (g *GridMap) At(c Cell) Occupancy {
	return g.cells[g.index(c)]
}

// BlockedCount returns the number of obstacle cells
func (g *GridMap) BlockedCount() int {
	n := 0
	for _, v := range g.cells {
		if v == Blocked {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid
func (g *GridMap) Clone() *GridMap {
	cells := make([]Occupancy, len(g.cells))
	copy(cells, g.cells)
	return &GridMap{height: g.height, width: g.width, cells: cells}
}

// index packs a cell into its linear offset (row*width + col)
func (g *GridMap) index(c Cell) int {
	return c.Row*g.width + c.Col
}

func (g *GridMap) cellAt(idx int) Cell {
	return Cell{Row: idx / g.width, Col: idx % g.width}
}

// set is only used by World, which owns the mutable grid
func (g *GridMap) set(c Cell, v Occupancy) {
	g.cells[g.index(c)] = v
}
