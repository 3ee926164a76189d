package main

import (
	"math"
)

// CompactPath drops interior cells that lie within epsilon of the segment
// joining the surrounding kept cells (Douglas-Peucker). With epsilon 0 only
// exactly collinear cells are removed, so the traced route is unchanged.
func CompactPath(path []Cell, epsilon float64) []Cell {
	if len(path) <= 2 {
		return path
	}

	keep := make([]bool, len(path))
	keep[0], keep[len(path)-1] = true, true

	type span struct{ first, last int }
	pending := []span{{0, len(path) - 1}}
	for len(pending) > 0 {
		sp := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		farthest, farthestDist := -1, epsilon
		for i := sp.first + 1; i < sp.last; i++ {
			if d := offsetFromSegment(path[i], path[sp.first], path[sp.last]); d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		if farthest < 0 {
			continue
		}
		keep[farthest] = true
		pending = append(pending, span{sp.first, farthest}, span{farthest, sp.last})
	}

	out := make([]Cell, 0, len(path))
	for i, c := range path {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// offsetFromSegment is the distance from c to the closest point of segment ab.
// Cells beyond either end are measured to that endpoint.
func offsetFromSegment(c, a, b Cell) float64 {
	segCol := float64(b.Col - a.Col)
	segRow := float64(b.Row - a.Row)
	col := float64(c.Col - a.Col)
	row := float64(c.Row - a.Row)

	lenSq := segCol*segCol + segRow*segRow
	if lenSq == 0 {
		return math.Hypot(col, row)
	}
	t := math.Max(0, math.Min(1, (col*segCol+row*segRow)/lenSq))
	return math.Hypot(col-t*segCol, row-t*segRow)
}
