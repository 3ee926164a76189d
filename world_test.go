package main

import (
	"errors"
	"math/rand"
	"testing"
)

func TestObstacleFootprint(t *testing.T) {
	grid, _ := NewEmptyGridMap(10, 10)

	tests := []struct {
		name     string
		obstacle Obstacle
		want     int
	}{
		{"square", Obstacle{Shape: Square, Origin: Cell{1, 1}, Size: 3}, 9},
		{"square clipped", Obstacle{Shape: Square, Origin: Cell{8, 8}, Size: 3}, 4},
		{"disc radius 1", Obstacle{Shape: Disc, Origin: Cell{5, 5}, Size: 1}, 5},
		{"disc radius 2", Obstacle{Shape: Disc, Origin: Cell{5, 5}, Size: 2}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := tt.obstacle.Footprint(grid)
			if len(cells) != tt.want {
				t.Errorf("footprint has %d cells, want %d: %v", len(cells), tt.want, cells)
			}
			for _, c := range cells {
				if !tt.obstacle.Contains(c) {
					t.Errorf("footprint cell %v not contained", c)
				}
			}
		})
	}
}

func TestWorldAddObstacles(t *testing.T) {
	world, err := NewWorld(30, 30, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	sq, err := world.AddSquare(4)
	if err != nil {
		t.Fatal(err)
	}
	if got := world.Snapshot().BlockedCount(); got != 16 {
		t.Errorf("BlockedCount = %d after one 4x4 square, want 16", got)
	}

	inside := Cell{sq.Origin.Row + 1, sq.Origin.Col + 2}
	covering := world.ObstaclesAt(inside)
	if len(covering) != 1 || covering[0].ID != sq.ID {
		t.Errorf("ObstaclesAt(%v) = %+v, want obstacle %d", inside, covering, sq.ID)
	}

	if _, err := world.AddDisc(3); err != nil {
		t.Fatal(err)
	}
	if n := len(world.Obstacles()); n != 2 {
		t.Errorf("Obstacles() has %d entries, want 2", n)
	}
}

func TestWorldRejectsBadObstacles(t *testing.T) {
	world, _ := NewWorld(10, 10, rand.New(rand.NewSource(1)))

	if _, err := world.AddSquare(11); !errors.Is(err, ErrObstacleTooLarge) {
		t.Errorf("oversized square error = %v", err)
	}
	if _, err := world.AddDisc(6); !errors.Is(err, ErrObstacleTooLarge) {
		t.Errorf("oversized disc error = %v", err)
	}
	if _, err := world.AddSquare(0); err == nil {
		t.Error("expected an error for a zero-size square")
	}
	if n := len(world.Obstacles()); n != 0 {
		t.Errorf("rejected obstacles were kept: %d", n)
	}
}

func TestWorldRegenerate(t *testing.T) {
	world, _ := NewWorld(60, 60, rand.New(rand.NewSource(3)))
	for _, size := range []int{3, 5, 7, 9} {
		if _, err := world.AddSquare(size); err != nil {
			t.Fatal(err)
		}
	}
	disc, err := world.AddDisc(4)
	if err != nil {
		t.Fatal(err)
	}

	before := world.Obstacles()
	moved := false
	for step := 0; step < 5; step++ {
		if err := world.Regenerate(); err != nil {
			t.Fatal(err)
		}
		after := world.Obstacles()
		if len(after) != len(before) {
			t.Fatalf("obstacle count changed: %d -> %d", len(before), len(after))
		}
		for i := range after {
			if after[i].Size != before[i].Size || after[i].Shape != before[i].Shape {
				t.Errorf("obstacle %d changed shape or size: %+v -> %+v", i, before[i], after[i])
			}
			if after[i].Static() && after[i].Origin != disc.Origin {
				t.Errorf("disc moved from %v to %v", disc.Origin, after[i].Origin)
			}
			if !after[i].Static() && after[i].Origin != before[i].Origin {
				moved = true
			}
		}
	}
	if !moved {
		t.Error("no square moved over five regenerations")
	}
}

// The grid always equals the union of current footprints, so a cell cleared
// by one obstacle moving away stays blocked while another still covers it.
func TestWorldGridMatchesFootprints(t *testing.T) {
	world, _ := NewWorld(12, 12, rand.New(rand.NewSource(11)))
	for i := 0; i < 6; i++ {
		if _, err := world.AddSquare(5); err != nil {
			t.Fatal(err)
		}
	}

	for step := 0; step < 10; step++ {
		if err := world.Regenerate(); err != nil {
			t.Fatal(err)
		}
		grid := world.Snapshot()
		for r := 0; r < grid.Height(); r++ {
			for c := 0; c < grid.Width(); c++ {
				cell := Cell{r, c}
				covered := len(world.ObstaclesAt(cell)) > 0
				if covered != grid.IsBlocked(cell) {
					t.Fatalf("step %d: cell %v blocked=%v but covered=%v", step, cell, grid.IsBlocked(cell), covered)
				}
			}
		}
	}
}

func TestWorldProtectedCellsStayFree(t *testing.T) {
	world, _ := NewWorld(20, 20, rand.New(rand.NewSource(5)))
	start, goal := Cell{0, 0}, Cell{19, 19}
	world.Protect(start, goal)

	for i := 0; i < 15; i++ {
		if _, err := world.AddSquare(6); err != nil {
			t.Fatal(err)
		}
	}
	for step := 0; step < 20; step++ {
		if err := world.Regenerate(); err != nil {
			t.Fatal(err)
		}
		grid := world.Snapshot()
		if grid.IsBlocked(start) || grid.IsBlocked(goal) {
			t.Fatalf("step %d: protected cell blocked", step)
		}
	}
}

func TestWorldSnapshotIsImmutable(t *testing.T) {
	world, _ := NewWorld(15, 15, rand.New(rand.NewSource(9)))
	for i := 0; i < 4; i++ {
		if _, err := world.AddSquare(4); err != nil {
			t.Fatal(err)
		}
	}

	snap := world.Snapshot()
	saved := FormatGrid(snap)
	for i := 0; i < 3; i++ {
		if err := world.Regenerate(); err != nil {
			t.Fatal(err)
		}
	}
	if FormatGrid(snap) != saved {
		t.Error("snapshot changed after regeneration")
	}
}

func TestWorldKeepsBaseLayer(t *testing.T) {
	base := mustGrid(t, `
#.....
#.....
#.....
#.....`)
	world := NewWorldFromGrid(base, rand.New(rand.NewSource(2)))
	if _, err := world.AddSquare(2); err != nil {
		t.Fatal(err)
	}
	for step := 0; step < 5; step++ {
		if err := world.Regenerate(); err != nil {
			t.Fatal(err)
		}
		grid := world.Snapshot()
		for r := 0; r < 4; r++ {
			if !grid.IsBlocked(Cell{r, 0}) {
				t.Fatalf("step %d: base wall cell (%d,0) cleared", step, r)
			}
		}
	}
}
