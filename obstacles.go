package main

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/dhconnelly/rtreego"
)

// ObstacleShape is the footprint type of an obstacle
type ObstacleShape int

const (
	Square ObstacleShape = iota
	Disc
)

func (s ObstacleShape) String() string {
	if s == Disc {
		return "disc"
	}
	return "square"
}

// MarshalText encodes the shape by name
func (s ObstacleShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ObstacleShape) UnmarshalText(text []byte) error {
	switch string(text) {
	case "square":
		*s = Square
	case "disc":
		*s = Disc
	default:
		return fmt.Errorf("unknown obstacle shape %q", text)
	}
	return nil
}

var ErrObstacleTooLarge = errors.New("obstacle does not fit in grid")

// Obstacle is a square (Origin = top-left corner, Size = side) or a disc
// (Origin = center, Size = radius). Discs stay where they were placed;
// squares move on every regeneration.
type Obstacle struct {
	ID     int           `json:"id"`
	Shape  ObstacleShape `json:"shape"`
	Origin Cell          `json:"origin"`
	Size   int           `json:"size"`
	bbox   rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (o *Obstacle) Bounds() rtreego.Rect {
	return o.bbox
}

// Static reports whether the obstacle keeps its position across regenerations
func (o *Obstacle) Static() bool {
	return o.Shape == Disc
}

// Contains reports whether c lies inside the obstacle footprint
func (o *Obstacle) Contains(c Cell) bool {
	switch o.Shape {
	case Disc:
		dr := c.Row - o.Origin.Row
		dc := c.Col - o.Origin.Col
		return dr*dr+dc*dc <= o.Size*o.Size
	default:
		return c.Row >= o.Origin.Row && c.Row < o.Origin.Row+o.Size &&
			c.Col >= o.Origin.Col && c.Col < o.Origin.Col+o.Size
	}
}

// Footprint returns the in-bounds cells covered by the obstacle
func (o *Obstacle) Footprint(grid *GridMap) []Cell {
	minR, minC, maxR, maxC := o.extent()
	cells := make([]Cell, 0, (maxR-minR)*(maxC-minC))
	for r := minR; r < maxR; r++ {
		for c := minC; c < maxC; c++ {
			cell := Cell{Row: r, Col: c}
			if grid.IsValid(cell) && o.Contains(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// extent is the half-open bounding box [minR,maxR) x [minC,maxC)
func (o *Obstacle) extent() (minR, minC, maxR, maxC int) {
	if o.Shape == Disc {
		return o.Origin.Row - o.Size, o.Origin.Col - o.Size,
			o.Origin.Row + o.Size + 1, o.Origin.Col + o.Size + 1
	}
	return o.Origin.Row, o.Origin.Col, o.Origin.Row + o.Size, o.Origin.Col + o.Size
}

// moveTo repositions the obstacle and refreshes its bounding box
func (o *Obstacle) moveTo(origin Cell) error {
	o.Origin = origin
	minR, minC, maxR, maxC := o.extent()
	bbox, err := rtreego.NewRect(
		rtreego.Point{float64(minR), float64(minC)},
		[]float64{float64(maxR - minR), float64(maxC - minC)},
	)
	if err != nil {
		return fmt.Errorf("obstacle %d bounds: %w", o.ID, err)
	}
	o.bbox = bbox
	return nil
}

// randomOrigin picks a placement that keeps the whole footprint inside a
// height x width grid
func (o *Obstacle) randomOrigin(rng *rand.Rand, height, width int) (Cell, error) {
	switch o.Shape {
	case Disc:
		if 2*o.Size > height || 2*o.Size > width {
			return Cell{}, fmt.Errorf("%w: disc radius %d in %dx%d", ErrObstacleTooLarge, o.Size, height, width)
		}
		return Cell{
			Row: o.Size + rng.Intn(height-2*o.Size+1),
			Col: o.Size + rng.Intn(width-2*o.Size+1),
		}, nil
	default:
		if o.Size > height || o.Size > width {
			return Cell{}, fmt.Errorf("%w: square size %d in %dx%d", ErrObstacleTooLarge, o.Size, height, width)
		}
		return Cell{
			Row: rng.Intn(height - o.Size + 1),
			Col: rng.Intn(width - o.Size + 1),
		}, nil
	}
}
