package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

var (
	ErrOutOfBounds    = errors.New("cell outside grid bounds")
	ErrBudgetExceeded = errors.New("search exceeded expansion budget")
	ErrUnknownAlgo    = errors.New("unknown algorithm")
)

// Algorithm selects the relaxation rule used by a Planner
type Algorithm int

const (
	AStar Algorithm = iota
	ThetaStar
)

func (a Algorithm) String() string {
	switch a {
	case AStar:
		return "astar"
	case ThetaStar:
		return "thetastar"
	default:
		return "unknown"
	}
}

// ParseAlgorithm accepts "astar"/"a*" and "thetastar"/"theta*"
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "astar", "a*", "a-star":
		return AStar, nil
	case "thetastar", "theta*", "theta-star", "theta":
		return ThetaStar, nil
	}
	return AStar, fmt.Errorf("%w: %q", ErrUnknownAlgo, s)
}

// Options defines parameters for a search
type Options struct {
	LineOfSightCap float64 // Theta* shortcut cap; <= 0 means unlimited
	MaxExpansions  int     // 0 means unlimited
}

// Option is a function that modifies Options
type Option func(*Options)

// WithLineOfSightCap sets the maximum Theta* shortcut distance
func WithLineOfSightCap(maxDistance float64) Option {
	return func(o *Options) { o.LineOfSightCap = maxDistance }
}

// WithMaxExpansions bounds the number of node expansions per search
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// Result contains the outcome of a search
type Result struct {
	Path     []Cell  `json:"path"`
	Cost     float64 `json:"cost"`
	Expanded int     `json:"expanded"`
	Found    bool    `json:"found"`
}

// Planner runs full from-scratch searches on grid snapshots. It holds no
// state between calls and is safe for concurrent use.
type Planner struct {
	algorithm Algorithm
	opts      Options
	los       LineOfSight
}

// NewPlanner creates a planner for the given algorithm
func NewPlanner(algorithm Algorithm, options ...Option) *Planner {
	opts := Options{LineOfSightCap: DefaultLineOfSightCap}
	for _, o := range options {
		o(&opts)
	}
	return &Planner{
		algorithm: algorithm,
		opts:      opts,
		los:       NewLineOfSight(opts.LineOfSightCap),
	}
}

// searchState holds the per-call scores and parent links, indexed by linear cell index
type searchState struct {
	grid      *GridMap
	g         []float64
	parents   ParentMap
	frontier  *frontier
	neighbors []Cell
}

var statePool sync.Pool

func acquireState(grid *GridMap) *searchState {
	size := grid.Height() * grid.Width()
	if s, ok := statePool.Get().(*searchState); ok && len(s.g) == size {
		s.grid = grid
		s.parents.width = grid.Width()
		for i := range s.g {
			s.g[i] = math.Inf(1)
		}
		s.parents.clear()
		s.frontier.reset()
		return s
	}

	s := &searchState{
		grid:      grid,
		g:         make([]float64, size),
		parents:   newParentMap(grid.Height(), grid.Width()),
		frontier:  newFrontier(size),
		neighbors: make([]Cell, 0, len(neighborOffsets)),
	}
	for i := range s.g {
		s.g[i] = math.Inf(1)
	}
	return s
}

func releaseState(s *searchState) {
	s.grid = nil
	statePool.Put(s)
}

// Search plans a path from start to goal. An unreachable goal is reported as
// Result.Found == false with a nil error; errors are reserved for invalid
// input, cancellation and an exhausted expansion budget.
func (p *Planner) Search(ctx context.Context, grid *GridMap, start, goal Cell) (Result, error) {
	if !grid.IsValid(start) {
		return Result{}, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !grid.IsValid(goal) {
		return Result{}, fmt.Errorf("goal %v: %w", goal, ErrOutOfBounds)
	}
	if grid.IsBlocked(start) || grid.IsBlocked(goal) {
		return Result{}, nil
	}
	if start == goal {
		return Result{Path: []Cell{start}, Found: true}, nil
	}

	s := acquireState(grid)
	defer releaseState(s)

	relax := relaxAStar
	if p.algorithm == ThetaStar {
		relax = p.relaxThetaStar
	}

	startIdx := grid.index(start)
	goalIdx := grid.index(goal)
	s.g[startIdx] = 0
	h0 := Heuristic(start, goal)
	s.frontier.upsert(startIdx, h0, h0)

	expanded := 0
	for s.frontier.Len() > 0 {
		if expanded&0xff == 0 {
			if err := ctx.Err(); err != nil {
				return Result{Expanded: expanded}, fmt.Errorf("search %v -> %v: %w", start, goal, err)
			}
		}
		if p.opts.MaxExpansions > 0 && expanded >= p.opts.MaxExpansions {
			return Result{Expanded: expanded}, fmt.Errorf("%w: %d expansions", ErrBudgetExceeded, expanded)
		}

		currentIdx := s.frontier.pop()
		if currentIdx == goalIdx {
			return Result{
				Path:     ReconstructPath(s.parents, goal),
				Cost:     s.g[goalIdx],
				Expanded: expanded,
				Found:    true,
			}, nil
		}
		expanded++

		current := grid.cellAt(currentIdx)
		s.neighbors = Neighbors(s.neighbors[:0], grid, current)
		for _, neighbor := range s.neighbors {
			parent, tentativeG := relax(s, current, neighbor)
			nIdx := grid.index(neighbor)
			if tentativeG < s.g[nIdx] {
				s.g[nIdx] = tentativeG
				s.parents.Set(neighbor, parent)
				h := Heuristic(neighbor, goal)
				s.frontier.upsert(nIdx, tentativeG+h, h)
			}
		}
	}

	return Result{Expanded: expanded}, nil
}
