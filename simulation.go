package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// AlgoReport is one algorithm's outcome for a single step
type AlgoReport struct {
	Found    bool          `json:"found"`
	Cells    int           `json:"cells"`
	Length   float64       `json:"length"`
	Expanded int           `json:"expanded"`
	Elapsed  time.Duration `json:"elapsedNs"`
	Error    string        `json:"error,omitempty"`
}

// StepReport records both searches for one obstacle configuration
type StepReport struct {
	Step         int        `json:"step"`
	BlockedCells int        `json:"blockedCells"`
	AStar        AlgoReport `json:"astar"`
	ThetaStar    AlgoReport `json:"thetastar"`
	AgentsFound  int        `json:"agentsFound,omitempty"`
	AgentsTotal  int        `json:"agentsTotal,omitempty"`
}

// StepFrame carries everything a renderer needs for one step
type StepFrame struct {
	Report    StepReport
	Grid      *GridMap
	Start     Cell
	Goal      Cell
	AStarPath []Cell
	ThetaPath []Cell
	Agents    []AgentResult
}

// Simulation drives the replanning loop: regenerate obstacles, take a
// snapshot, then plan from scratch with A* and Theta*
type Simulation struct {
	cfg         *Config
	world       *World
	astar       *Planner
	theta       *Planner
	coordinator *Coordinator
	seed        int64
}

// NewSimulation builds the world described by cfg and places its obstacles
func NewSimulation(cfg *Config) (*Simulation, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var world *World
	if cfg.Grid.File != "" {
		base, err := LoadGridFile(cfg.Grid.File)
		if err != nil {
			return nil, err
		}
		if err := cfg.ValidateEndpoints(base.Height(), base.Width()); err != nil {
			return nil, err
		}
		world = NewWorldFromGrid(base, rng)
	} else {
		w, err := NewWorld(cfg.Grid.Height, cfg.Grid.Width, rng)
		if err != nil {
			return nil, err
		}
		world = w
	}

	if cfg.Obstacles.KeepEndpointsClear {
		world.Protect(cfg.Start, cfg.Goal)
		for _, a := range cfg.Agents {
			world.Protect(a.Start, a.Goal)
		}
	}

	o := cfg.Obstacles
	for i := 0; i < o.Squares; i++ {
		size := o.MinSize + rng.Intn(o.MaxSize-o.MinSize+1)
		if _, err := world.AddSquare(size); err != nil {
			return nil, fmt.Errorf("square obstacle %d: %w", i, err)
		}
	}
	for i := 0; i < o.Discs; i++ {
		if _, err := world.AddDisc(o.DiscRadius); err != nil {
			return nil, fmt.Errorf("disc obstacle %d: %w", i, err)
		}
	}

	log.Printf("🗺️  World ready: %d obstacles, seed %d\n", o.Squares+o.Discs, seed)

	opts := cfg.SearchOptions()
	return &Simulation{
		cfg:         cfg,
		world:       world,
		astar:       NewPlanner(AStar, opts...),
		theta:       NewPlanner(ThetaStar, opts...),
		coordinator: NewCoordinator(cfg.Search.Parallelism, opts...),
		seed:        seed,
	}, nil
}

// World exposes the owned obstacle field
func (s *Simulation) World() *World { return s.world }

// Seed is the seed the obstacle field was generated from, including a
// time based one picked when the config left it at zero
func (s *Simulation) Seed() int64 { return s.seed }

// Run plans on the initial field (step 0) and then once per regeneration.
// observe, if non-nil, is called after every step.
func (s *Simulation) Run(ctx context.Context, observe func(StepFrame)) ([]StepReport, error) {
	reports := make([]StepReport, 0, s.cfg.Steps+1)
	for step := 0; step <= s.cfg.Steps; step++ {
		if step > 0 {
			if err := s.world.Regenerate(); err != nil {
				return reports, fmt.Errorf("step %d: %w", step, err)
			}
		}

		frame, err := s.Step(ctx, step)
		if err != nil {
			return reports, err
		}
		reports = append(reports, frame.Report)
		if observe != nil {
			observe(frame)
		}
	}
	return reports, nil
}

// Step plans on the current obstacle configuration without mutating it
func (s *Simulation) Step(ctx context.Context, step int) (StepFrame, error) {
	grid := s.world.Snapshot()
	frame := StepFrame{
		Report: StepReport{Step: step, BlockedCells: grid.BlockedCount()},
		Grid:   grid,
		Start:  s.cfg.Start,
		Goal:   s.cfg.Goal,
	}

	var err error
	frame.Report.AStar, frame.AStarPath, err = s.timedSearch(ctx, s.astar, grid)
	if err != nil {
		return frame, err
	}
	frame.Report.ThetaStar, frame.ThetaPath, err = s.timedSearch(ctx, s.theta, grid)
	if err != nil {
		return frame, err
	}

	if len(s.cfg.Agents) > 0 {
		frame.Agents, err = s.coordinator.Plan(ctx, grid, s.cfg.Agents)
		if err != nil {
			return frame, fmt.Errorf("step %d agents: %w", step, err)
		}
		frame.Report.AgentsTotal = len(frame.Agents)
		for _, a := range frame.Agents {
			if a.Result.Found {
				frame.Report.AgentsFound++
			}
		}
	}

	logStep(frame.Report)
	return frame, nil
}

// timedSearch runs one search under the configured timeout. Budget and
// timeout failures are recorded on the report; cancellation of ctx itself
// is returned.
func (s *Simulation) timedSearch(ctx context.Context, p *Planner, grid *GridMap) (AlgoReport, []Cell, error) {
	searchCtx := ctx
	if s.cfg.Search.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.cfg.Search.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	res, err := p.Search(searchCtx, grid, s.cfg.Start, s.cfg.Goal)
	report := AlgoReport{
		Found:    res.Found,
		Cells:    len(res.Path),
		Length:   PathLength(res.Path),
		Expanded: res.Expanded,
		Elapsed:  time.Since(startTime),
	}

	if err != nil {
		if ctx.Err() != nil {
			return report, nil, err
		}
		if !errors.Is(err, ErrBudgetExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			return report, nil, err
		}
		report.Error = err.Error()
	}
	return report, res.Path, nil
}

func logStep(r StepReport) {
	log.Printf("⏱️  Step %d (%d blocked cells)\n", r.Step, r.BlockedCells)
	for _, entry := range []struct {
		name string
		rep  AlgoReport
	}{{"A*", r.AStar}, {"Theta*", r.ThetaStar}} {
		switch {
		case entry.rep.Error != "":
			log.Printf("   ⚠️  %s aborted after %s: %s\n", entry.name, entry.rep.Elapsed, entry.rep.Error)
		case entry.rep.Found:
			log.Printf("   ✅ %s path found in %s: %d cells, length %.2f\n",
				entry.name, entry.rep.Elapsed, entry.rep.Cells, entry.rep.Length)
		default:
			log.Printf("   ❌ %s path not found (%s)\n", entry.name, entry.rep.Elapsed)
		}
	}
	if r.AgentsTotal > 0 {
		log.Printf("   🤖 Agents with a path: %d/%d\n", r.AgentsFound, r.AgentsTotal)
	}
}
