package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

var algorithms = []Algorithm{AStar, ThetaStar}

func search(t *testing.T, alg Algorithm, grid *GridMap, start, goal Cell, options ...Option) Result {
	t.Helper()
	res, err := NewPlanner(alg, options...).Search(context.Background(), grid, start, goal)
	if err != nil {
		t.Fatalf("%s search %v -> %v failed: %v", alg, start, goal, err)
	}
	return res
}

// checkPath verifies endpoints and that every segment is walkable
func checkPath(t *testing.T, grid *GridMap, path []Cell, start, goal Cell) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("empty path")
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path %v does not run from %v to %v", path, start, goal)
	}
	for i := 1; i < len(path); i++ {
		for _, c := range RasterLine(path[i-1], path[i]) {
			if !grid.IsValid(c) || grid.IsBlocked(c) {
				t.Fatalf("segment %v -> %v crosses blocked cell %v", path[i-1], path[i], c)
			}
		}
	}
}

func TestSearchOpenGrid(t *testing.T) {
	grid, _ := NewEmptyGridMap(5, 5)
	start, goal := Cell{0, 0}, Cell{4, 4}

	astar := search(t, AStar, grid, start, goal)
	if !astar.Found {
		t.Fatal("A* found no path on an open grid")
	}
	want := []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}
	if !reflect.DeepEqual(astar.Path, want) {
		t.Errorf("A* path = %v, want %v", astar.Path, want)
	}
	if math.Abs(astar.Cost-4*math.Sqrt2) > epsilon {
		t.Errorf("A* cost = %f, want %f", astar.Cost, 4*math.Sqrt2)
	}

	theta := search(t, ThetaStar, grid, start, goal)
	if !theta.Found {
		t.Fatal("Theta* found no path on an open grid")
	}
	checkPath(t, grid, theta.Path, start, goal)
	if len(theta.Path) > len(astar.Path) {
		t.Errorf("Theta* used %d waypoints, A* %d", len(theta.Path), len(astar.Path))
	}
	if PathLength(theta.Path) > PathLength(astar.Path)+epsilon {
		t.Errorf("Theta* length %f exceeds A* length %f", PathLength(theta.Path), PathLength(astar.Path))
	}
}

func TestSearchAnyAngleShortcut(t *testing.T) {
	grid, _ := NewEmptyGridMap(10, 10)
	start, goal := Cell{0, 0}, Cell{3, 9}

	astar := search(t, AStar, grid, start, goal)
	if want := 3*math.Sqrt2 + 6; math.Abs(astar.Cost-want) > epsilon {
		t.Errorf("A* cost = %f, want %f", astar.Cost, want)
	}

	theta := search(t, ThetaStar, grid, start, goal)
	checkPath(t, grid, theta.Path, start, goal)
	if PathLength(theta.Path) >= astar.Cost {
		t.Errorf("Theta* length %f not shorter than A* %f", PathLength(theta.Path), astar.Cost)
	}
}

func TestSearchThroughGap(t *testing.T) {
	grid := mustGrid(t, `
.....
.....
###.#
.....
.....`)
	start := Cell{0, 0}

	tests := []struct {
		goal      Cell
		wantTheta []Cell
	}{
		{Cell{4, 0}, nil},
		{Cell{4, 4}, []Cell{{0, 0}, {3, 4}, {4, 4}}},
	}

	for _, tt := range tests {
		for _, alg := range algorithms {
			t.Run(fmt.Sprintf("%s/goal %v", alg, tt.goal), func(t *testing.T) {
				res := search(t, alg, grid, start, tt.goal)
				if !res.Found {
					t.Fatal("no path through the gap")
				}
				checkPath(t, grid, res.Path, start, tt.goal)

				for i := 1; i < len(res.Path); i++ {
					for _, c := range RasterLine(res.Path[i-1], res.Path[i]) {
						if c.Row == 2 && c.Col != 3 {
							t.Errorf("path crosses the wall at %v", c)
						}
					}
				}
				if alg == ThetaStar && tt.wantTheta != nil && !reflect.DeepEqual(res.Path, tt.wantTheta) {
					t.Errorf("Theta* path = %v, want %v", res.Path, tt.wantTheta)
				}
			})
		}
	}
}

func TestSearchUnreachable(t *testing.T) {
	grid := mustGrid(t, `
.....
.....
#####
.....
.....`)

	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			res, err := NewPlanner(alg).Search(context.Background(), grid, Cell{0, 0}, Cell{4, 4})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Found || len(res.Path) != 0 {
				t.Errorf("expected no path, got %v", res.Path)
			}
			if res.Expanded < 10 {
				t.Errorf("expanded %d cells, want at least the 10 reachable ones", res.Expanded)
			}
		})
	}
}

func TestSearchEdgeCases(t *testing.T) {
	grid := mustGrid(t, `
...
.#.
...`)

	tests := []struct {
		name      string
		start     Cell
		goal      Cell
		wantFound bool
		wantPath  []Cell
		wantErr   error
	}{
		{"start equals goal", Cell{0, 0}, Cell{0, 0}, true, []Cell{{0, 0}}, nil},
		{"blocked goal", Cell{0, 0}, Cell{1, 1}, false, nil, nil},
		{"blocked start", Cell{1, 1}, Cell{2, 2}, false, nil, nil},
		{"start out of bounds", Cell{-1, 0}, Cell{2, 2}, false, nil, ErrOutOfBounds},
		{"goal out of bounds", Cell{0, 0}, Cell{3, 0}, false, nil, ErrOutOfBounds},
	}

	for _, alg := range algorithms {
		for _, tt := range tests {
			t.Run(alg.String()+"/"+tt.name, func(t *testing.T) {
				res, err := NewPlanner(alg).Search(context.Background(), grid, tt.start, tt.goal)
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("error = %v, want %v", err, tt.wantErr)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Found != tt.wantFound {
					t.Errorf("Found = %v, want %v", res.Found, tt.wantFound)
				}
				if !reflect.DeepEqual(res.Path, tt.wantPath) {
					t.Errorf("Path = %v, want %v", res.Path, tt.wantPath)
				}
				if res.Expanded != 0 {
					t.Errorf("Expanded = %d, want 0", res.Expanded)
				}
			})
		}
	}
}

func TestSearchBudgetExceeded(t *testing.T) {
	grid, _ := NewEmptyGridMap(50, 50)
	for _, alg := range algorithms {
		_, err := NewPlanner(alg, WithMaxExpansions(3)).
			Search(context.Background(), grid, Cell{0, 0}, Cell{49, 49})
		if !errors.Is(err, ErrBudgetExceeded) {
			t.Errorf("%s: error = %v, want ErrBudgetExceeded", alg, err)
		}
	}
}

func TestSearchCanceled(t *testing.T) {
	grid, _ := NewEmptyGridMap(20, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, alg := range algorithms {
		_, err := NewPlanner(alg).Search(ctx, grid, Cell{0, 0}, Cell{19, 19})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: error = %v, want context.Canceled", alg, err)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	grid := mustGrid(t, `
..........
..##......
..##..#...
......#...
...####...
..........`)
	start, goal := Cell{0, 0}, Cell{5, 9}

	for _, alg := range algorithms {
		first := search(t, alg, grid, start, goal)
		for i := 0; i < 5; i++ {
			again := search(t, alg, grid, start, goal)
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("%s: run %d returned %+v, first run %+v", alg, i, again, first)
			}
		}
	}
}

// Theta* never returns a longer path than A*, and both agree on reachability.
// A*'s cost is the octile optimum, so it never undercuts the straight line.
func TestThetaStarNeverLongerThanAStar(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		world, err := NewWorld(40, 40, rng)
		if err != nil {
			t.Fatal(err)
		}
		start := Cell{rng.Intn(40), rng.Intn(40)}
		goal := Cell{rng.Intn(40), rng.Intn(40)}
		world.Protect(start, goal)
		for i := 0; i < 12; i++ {
			if _, err := world.AddSquare(2 + rng.Intn(5)); err != nil {
				t.Fatal(err)
			}
		}
		grid := world.Snapshot()

		astar := search(t, AStar, grid, start, goal)
		theta := search(t, ThetaStar, grid, start, goal)

		if astar.Found != theta.Found {
			t.Fatalf("trial %d: A* found=%v, Theta* found=%v", trial, astar.Found, theta.Found)
		}
		if !astar.Found {
			continue
		}

		checkPath(t, grid, astar.Path, start, goal)
		checkPath(t, grid, theta.Path, start, goal)
		if math.Abs(astar.Cost-PathLength(astar.Path)) > 1e-6 {
			t.Errorf("trial %d: A* cost %f disagrees with path length %f", trial, astar.Cost, PathLength(astar.Path))
		}
		if Heuristic(start, goal) > astar.Cost+1e-6 {
			t.Errorf("trial %d: heuristic %f exceeds optimal cost %f", trial, Heuristic(start, goal), astar.Cost)
		}
		if PathLength(theta.Path) > astar.Cost+1e-6 {
			t.Errorf("trial %d: Theta* length %f exceeds A* cost %f", trial, PathLength(theta.Path), astar.Cost)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"astar", AStar, false},
		{"A*", AStar, false},
		{" theta* ", ThetaStar, false},
		{"ThetaStar", ThetaStar, false},
		{"dijkstra", AStar, true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownAlgo) {
				t.Errorf("ParseAlgorithm(%q) error = %v, want ErrUnknownAlgo", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	grid := mustGrid(t, `
....
.##.
....`)
	start, goal := Cell{0, 0}, Cell{2, 3}

	astar, err := AStarPath(grid, start, goal)
	if err != nil || !astar.Found {
		t.Fatalf("AStarPath = %+v, %v", astar, err)
	}
	theta, err := ThetaStarPath(grid, start, goal)
	if err != nil || !theta.Found {
		t.Fatalf("ThetaStarPath = %+v, %v", theta, err)
	}
	checkPath(t, grid, astar.Path, start, goal)
	checkPath(t, grid, theta.Path, start, goal)
	if PathLength(theta.Path) > PathLength(astar.Path)+epsilon {
		t.Errorf("Theta* length %f exceeds A* %f", PathLength(theta.Path), PathLength(astar.Path))
	}
}
