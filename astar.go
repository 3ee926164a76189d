package main

import "context"

// relaxAStar proposes current as the parent of neighbor
func relaxAStar(s *searchState, current, neighbor Cell) (Cell, float64) {
	return current, s.g[s.grid.index(current)] + EdgeCost(current, neighbor)
}

// AStarPath runs an A* search with default options
func AStarPath(grid *GridMap, start, goal Cell) (Result, error) {
	return NewPlanner(AStar).Search(context.Background(), grid, start, goal)
}
