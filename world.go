package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
)

// maxPlacementAttempts bounds re-rolls of an obstacle that lands on a protected cell
const maxPlacementAttempts = 50

// World is the single owner of the mutable occupancy grid. Obstacles are
// painted on top of a static base layer; searches only ever see snapshots.
type World struct {
	mu        sync.RWMutex
	base      *GridMap
	grid      *GridMap
	obstacles []*Obstacle
	index     *SpatialIndex
	protected []Cell
	rng       *rand.Rand
}

// NewWorld creates an obstacle-free world of the given size
func NewWorld(height, width int, rng *rand.Rand) (*World, error) {
	base, err := NewEmptyGridMap(height, width)
	if err != nil {
		return nil, err
	}
	return NewWorldFromGrid(base, rng), nil
}

// NewWorldFromGrid uses base as the static layer under all obstacles
func NewWorldFromGrid(base *GridMap, rng *rand.Rand) *World {
	w := &World{
		base: base.Clone(),
		grid: base.Clone(),
		rng:  rng,
	}
	w.index = NewSpatialIndex(nil)
	return w
}

// Protect marks cells that obstacles must never cover (agent starts and goals)
func (w *World) Protect(cells ...Cell) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.protected = append(w.protected, cells...)
	w.repaintLocked()
}

// AddSquare places a size x size obstacle at a random position
func (w *World) AddSquare(size int) (*Obstacle, error) {
	return w.add(Square, size)
}

// AddDisc places a static circular obstacle of the given radius
func (w *World) AddDisc(radius int) (*Obstacle, error) {
	return w.add(Disc, radius)
}

func (w *World) add(shape ObstacleShape, size int) (*Obstacle, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%s size must be positive, got %d", shape, size)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	o := &Obstacle{ID: len(w.obstacles), Shape: shape, Size: size}
	if err := w.placeLocked(o); err != nil {
		return nil, err
	}
	w.obstacles = append(w.obstacles, o)
	w.repaintLocked()
	return o, nil
}

// Regenerate moves every non-static obstacle to a new random position.
// It completes before returning, so a following Snapshot sees the whole step.
func (w *World) Regenerate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, o := range w.obstacles {
		if o.Static() {
			continue
		}
		if err := w.placeLocked(o); err != nil {
			return err
		}
	}
	w.repaintLocked()
	return nil
}

// placeLocked picks a random origin, re-rolling while the footprint covers a
// protected cell. After maxPlacementAttempts the last roll is kept and the
// protected cells are cleared on repaint instead.
func (w *World) placeLocked(o *Obstacle) error {
	height, width := w.base.Height(), w.base.Width()
	for attempt := 0; ; attempt++ {
		origin, err := o.randomOrigin(w.rng, height, width)
		if err != nil {
			return err
		}
		if err := o.moveTo(origin); err != nil {
			return err
		}
		if !w.coversProtected(o) || attempt >= maxPlacementAttempts {
			return nil
		}
	}
}

func (w *World) coversProtected(o *Obstacle) bool {
	for _, c := range w.protected {
		if o.Contains(c) {
			return true
		}
	}
	return false
}

// repaintLocked rebuilds the grid from the base layer and every obstacle
// footprint, then rebuilds the spatial index
func (w *World) repaintLocked() {
	grid := w.base.Clone()
	for _, o := range w.obstacles {
		for _, c := range o.Footprint(grid) {
			grid.set(c, Blocked)
		}
	}

	w.index = NewSpatialIndex(w.obstacles)
	for _, c := range w.protected {
		if !grid.IsValid(c) {
			continue
		}
		if covering := w.index.QueryCell(c); len(covering) > 0 {
			log.Printf("⚠️  Protected cell %v covered by %d obstacle(s), clearing it\n", c, len(covering))
		}
		grid.set(c, w.base.At(c))
	}
	w.grid = grid
}

// Snapshot returns an immutable copy of the current grid
func (w *World) Snapshot() *GridMap {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid.Clone()
}

// ObstaclesAt returns copies of the obstacles covering c
func (w *World) ObstaclesAt(c Cell) []Obstacle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	covering := w.index.QueryCell(c)
	out := make([]Obstacle, 0, len(covering))
	for _, o := range covering {
		out = append(out, *o)
	}
	return out
}

// Obstacles returns copies of all obstacles
func (w *World) Obstacles() []Obstacle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Obstacle, 0, len(w.obstacles))
	for _, o := range w.obstacles {
		out = append(out, *o)
	}
	return out
}
