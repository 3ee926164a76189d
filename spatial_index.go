package main

import (
	"github.com/dhconnelly/rtreego"
)

// SpatialIndex answers "which obstacles cover this area" queries
type SpatialIndex struct {
	tree *rtreego.Rtree
}

// NewSpatialIndex creates a new spatial index
func NewSpatialIndex(obstacles []*Obstacle) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, o := range obstacles {
		tree.Insert(o)
	}

	return &SpatialIndex{tree: tree}
}

// QueryRegion returns obstacles whose bounding boxes intersect the cell range
// [minR,maxR] x [minC,maxC], inclusive
func (si *SpatialIndex) QueryRegion(minR, minC, maxR, maxC int) []*Obstacle {
	// Shrink to the cell interiors so boxes that merely touch are excluded
	bbox, err := rtreego.NewRect(
		rtreego.Point{float64(minR) + 0.25, float64(minC) + 0.25},
		[]float64{float64(maxR-minR) + 0.5, float64(maxC-minC) + 0.5},
	)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(bbox)
	obstacles := make([]*Obstacle, 0, len(results))

	for _, item := range results {
		obstacles = append(obstacles, item.(*Obstacle))
	}

	return obstacles
}

// QueryCell returns the obstacles whose footprint covers c
func (si *SpatialIndex) QueryCell(c Cell) []*Obstacle {
	candidates := si.QueryRegion(c.Row, c.Col, c.Row, c.Col)
	covering := candidates[:0]
	for _, o := range candidates {
		if o.Contains(c) {
			covering = append(covering, o)
		}
	}
	return covering
}
