package main

import "context"

// relaxThetaStar lets neighbor inherit current's parent when that parent can
// see it directly. Only the immediate parent is considered, never deeper
// ancestors.
func (p *Planner) relaxThetaStar(s *searchState, current, neighbor Cell) (Cell, float64) {
	if parent, ok := s.parents.Parent(current); ok && p.los.Visible(s.grid, parent, neighbor) {
		return parent, s.g[s.grid.index(parent)] + EdgeCost(parent, neighbor)
	}
	return relaxAStar(s, current, neighbor)
}

// ThetaStarPath runs a Theta* search with default options
func ThetaStarPath(grid *GridMap, start, goal Cell) (Result, error) {
	return NewPlanner(ThetaStar).Search(context.Background(), grid, start, goal)
}
