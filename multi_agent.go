package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"
)

// Agent is one (start, goal) request in a batch
type Agent struct {
	Name  string `json:"name,omitempty"`
	Start Cell   `json:"start"`
	Goal  Cell   `json:"goal"`
}

// AgentResult is the outcome of planning for a single agent
type AgentResult struct {
	Agent  Agent  `json:"agent"`
	Result Result `json:"result"`
	Err    error  `json:"-"`
}

// Coordinator plans a batch of agents independently with Theta*. Agents do
// not see each other: paths may cross or overlap.
type Coordinator struct {
	planner     *Planner
	parallelism int
}

// NewCoordinator creates a coordinator. parallelism <= 1 plans agents one
// after another; larger values plan up to that many agents at once against
// the same immutable snapshot.
func NewCoordinator(parallelism int, options ...Option) *Coordinator {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Coordinator{
		planner:     NewPlanner(ThetaStar, options...),
		parallelism: parallelism,
	}
}

// Plan runs one full search per agent and returns results in input order.
// Per-agent input errors are recorded on the AgentResult; only cancellation
// aborts the batch.
func (c *Coordinator) Plan(ctx context.Context, grid *GridMap, agents []Agent) ([]AgentResult, error) {
	results := make([]AgentResult, len(agents))

	if c.parallelism == 1 {
		for i, agent := range agents {
			if err := c.planOne(ctx, grid, agent, &results[i]); err != nil {
				return results, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, agent := range agents {
		i, agent := i, agent
		g.Go(func() error {
			return c.planOne(gctx, grid, agent, &results[i])
		})
	}
	return results, g.Wait()
}

func (c *Coordinator) planOne(ctx context.Context, grid *GridMap, agent Agent, out *AgentResult) error {
	res, err := c.planner.Search(ctx, grid, agent.Start, agent.Goal)
	*out = AgentResult{Agent: agent, Result: res, Err: err}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case err != nil:
		log.Printf("⚠️  Agent %s %v -> %v: %v\n", agent.Name, agent.Start, agent.Goal, err)
	case res.Found:
		log.Printf("✅ Agent %s %v -> %v found a path (%d waypoints, length %.2f)\n",
			agent.Name, agent.Start, agent.Goal, len(res.Path), res.Cost)
	default:
		log.Printf("❌ Agent %s %v -> %v could not find a path\n", agent.Name, agent.Start, agent.Goal)
	}
	return nil
}
