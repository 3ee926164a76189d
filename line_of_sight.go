package main

// DefaultLineOfSightCap limits how far a Theta* shortcut may reach, in grid units.
// It bounds segment length independently of obstruction and is tunable.
const DefaultLineOfSightCap = 20.0

// LineOfSight tests straight-line visibility between cells on a grid
type LineOfSight struct {
	Cap float64 // Maximum shortcut distance; <= 0 disables the limit
}

// NewLineOfSight creates a checker with the given distance cap
func NewLineOfSight(maxDistance float64) LineOfSight {
	return LineOfSight{Cap: maxDistance}
}

// Visible reports whether every cell on the rasterized line from a to b,
// both endpoints included, is inside the grid and free. Pairs farther apart
// than the cap are never visible.
func (los LineOfSight) Visible(grid *GridMap, a, b Cell) bool {
	if los.Cap > 0 && a.Distance(b) > los.Cap {
		return false
	}

	visible := true
	walkLine(a, b, func(c Cell) bool {
		if !grid.IsValid(c) || grid.IsBlocked(c) {
			visible = false
			return false
		}
		return true
	})
	return visible
}

// RasterLine returns the cells traversed from a to b, inclusive
func RasterLine(a, b Cell) []Cell {
	var cells []Cell
	walkLine(a, b, func(c Cell) bool {
		cells = append(cells, c)
		return true
	})
	return cells
}

// walkLine steps from a to b with an integer error accumulator, calling visit
// for each cell until visit returns false or b has been visited.
func walkLine(a, b Cell, visit func(Cell) bool) {
	r, c := a.Row, a.Col
	dr := abs(b.Row - r)
	dc := abs(b.Col - c)
	sr, sc := 1, 1
	if r > b.Row {
		sr = -1
	}
	if c > b.Col {
		sc = -1
	}
	err := dr - dc

	for {
		if !visit(Cell{Row: r, Col: c}) {
			return
		}
		if r == b.Row && c == b.Col {
			return
		}
		e2 := 2 * err
		if e2 > -dc {
			err -= dc
			r += sr
		}
		if e2 < dr {
			err += dr
			c += sc
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
