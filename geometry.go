package main

import "math"

// Offset is a single-step move on the grid
type Offset struct {
	DRow, DCol int
}

// neighborOffsets lists the 8-connected moves: four orthogonal, then four diagonal
var neighborOffsets = [8]Offset{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// Add returns the cell reached by applying o to c
func (c Cell) Add(o Offset) Cell {
	return Cell{Row: c.Row + o.DRow, Col: c.Col + o.DCol}
}

// Distance calculates Euclidean distance between two cells
func (c Cell) Distance(other Cell) float64 {
	dr := float64(c.Row - other.Row)
	dc := float64(c.Col - other.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// Heuristic estimates the remaining cost from a to b. Straight-line distance
// never exceeds the cost of any 8-connected path with Euclidean edge costs.
func Heuristic(a, b Cell) float64 {
	return a.Distance(b)
}

// EdgeCost is the cost of moving directly from a to b (adjacent or visible)
func EdgeCost(a, b Cell) float64 {
	return a.Distance(b)
}

// Neighbors appends the valid, unblocked 8-connected neighbors of c to dst
func Neighbors(dst []Cell, grid *GridMap, c Cell) []Cell {
	for _, o := range neighborOffsets {
		n := c.Add(o)
		if !grid.IsValid(n) || grid.IsBlocked(n) {
			continue
		}
		dst = append(dst, n)
	}
	return dst
}

// PathLength sums the Euclidean distance between consecutive cells.
// Empty and single-cell paths have length 0.
func PathLength(path []Cell) float64 {
	if len(path) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}
