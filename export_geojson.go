package main

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// PathFeature is a named path to export
type PathFeature struct {
	Algorithm string
	Agent     string
	Path      []Cell
}

// cellToPoint maps a cell onto the plane with x = column, y = row
func cellToPoint(c Cell) orb.Point {
	return orb.Point{float64(c.Col), float64(c.Row)}
}

// PathsToGeoJSON converts paths into a FeatureCollection of LineStrings.
// Paths with fewer than two cells become Point features. When compact is
// set, collinear interior cells are dropped first.
func PathsToGeoJSON(paths []PathFeature, compact bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, p := range paths {
		cells := p.Path
		if len(cells) == 0 {
			continue
		}
		if compact {
			cells = CompactPath(cells, 0)
		}

		var geom orb.Geometry
		if len(cells) == 1 {
			geom = cellToPoint(cells[0])
		} else {
			ls := make(orb.LineString, 0, len(cells))
			for _, c := range cells {
				ls = append(ls, cellToPoint(c))
			}
			geom = ls
		}

		f := geojson.NewFeature(geom)
		f.Properties["algorithm"] = p.Algorithm
		if p.Agent != "" {
			f.Properties["agent"] = p.Agent
		}
		f.Properties["length"] = planar.Length(geom)
		f.Properties["cells"] = len(p.Path)
		fc.Append(f)
	}

	return fc
}

// FramePaths collects every path of a step frame for export
func FramePaths(frame StepFrame) []PathFeature {
	paths := []PathFeature{
		{Algorithm: AStar.String(), Path: frame.AStarPath},
		{Algorithm: ThetaStar.String(), Path: frame.ThetaPath},
	}
	for i, a := range frame.Agents {
		name := a.Agent.Name
		if name == "" {
			name = fmt.Sprintf("agent-%d", i)
		}
		paths = append(paths, PathFeature{Algorithm: ThetaStar.String(), Agent: name, Path: a.Result.Path})
	}
	return paths
}

// SaveGeoJSON writes paths as GeoJSON to filename
func SaveGeoJSON(filename string, paths []PathFeature, compact bool) error {
	data, err := PathsToGeoJSON(paths, compact).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal geojson: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
