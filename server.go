package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
)

type RouteRequest struct {
	Algorithm string `json:"algorithm"` // "astar" or "thetastar" (default)
	Start     Cell   `json:"start"`
	Goal      Cell   `json:"goal"`
}

type RouteResponse struct {
	Path     []Cell  `json:"path"`
	Success  bool    `json:"success"`
	Message  string  `json:"message,omitempty"`
	Length   float64 `json:"length,omitempty"`
	Expanded int     `json:"expanded"`
}

type AgentsRequest struct {
	Agents []Agent `json:"agents"`
}

type AgentResponse struct {
	Agent   Agent   `json:"agent"`
	Path    []Cell  `json:"path"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Length  float64 `json:"length,omitempty"`
}

// Server exposes the planners over HTTP. Each request plans against a fresh
// snapshot of the world.
type Server struct {
	world       *World
	planners    map[Algorithm]*Planner
	coordinator *Coordinator

	mu        sync.RWMutex
	lastPaths []PathFeature
}

// NewServer creates a server over world using the given search options
func NewServer(world *World, parallelism int, options ...Option) *Server {
	return &Server{
		world: world,
		planners: map[Algorithm]*Planner{
			AStar:     NewPlanner(AStar, options...),
			ThetaStar: NewPlanner(ThetaStar, options...),
		},
		coordinator: NewCoordinator(parallelism, options...),
	}
}

// Handler returns the routes of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/agents", corsMiddleware(s.agentsHandler))
	mux.HandleFunc("/obstacles", corsMiddleware(s.obstaclesHandler))
	mux.HandleFunc("/obstacles/regenerate", corsMiddleware(s.regenerateHandler))
	mux.HandleFunc("/paths.geojson", corsMiddleware(s.geojsonHandler))
	mux.HandleFunc("/plot.png", corsMiddleware(s.plotHandler))
	mux.HandleFunc("/grid", corsMiddleware(s.gridHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}

// POST /route - Plan a single path on the current obstacle field
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	algorithm := ThetaStar
	if req.Algorithm != "" {
		a, err := ParseAlgorithm(req.Algorithm)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		algorithm = a
	}

	log.Printf("📍 Route request: %s %v -> %v\n", algorithm, req.Start, req.Goal)

	res, err := s.planners[algorithm].Search(r.Context(), s.world.Snapshot(), req.Start, req.Goal)
	if err != nil {
		writeJSON(w, statusForError(err), RouteResponse{Success: false, Message: err.Error(), Expanded: res.Expanded})
		return
	}

	response := RouteResponse{
		Path:     res.Path,
		Success:  res.Found,
		Length:   res.Cost,
		Expanded: res.Expanded,
	}
	if !res.Found {
		log.Println("❌ No path found")
		response.Message = "No path found"
	} else {
		log.Printf("✅ Path found with %d waypoints, length %.2f\n", len(res.Path), res.Cost)
		s.remember([]PathFeature{{Algorithm: algorithm.String(), Path: res.Path}})
	}

	writeJSON(w, http.StatusOK, response)
}

// POST /agents - Plan a batch of independent agents with Theta*
func (s *Server) agentsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AgentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	log.Printf("🤖 Planning %d agents\n", len(req.Agents))
	results, err := s.coordinator.Plan(r.Context(), s.world.Snapshot(), req.Agents)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	responses := make([]AgentResponse, len(results))
	paths := make([]PathFeature, 0, len(results))
	for i, res := range results {
		responses[i] = AgentResponse{
			Agent:   res.Agent,
			Path:    res.Result.Path,
			Success: res.Result.Found,
			Length:  res.Result.Cost,
		}
		switch {
		case res.Err != nil:
			responses[i].Message = res.Err.Error()
		case !res.Result.Found:
			responses[i].Message = "No path found"
		default:
			paths = append(paths, PathFeature{Algorithm: ThetaStar.String(), Agent: res.Agent.Name, Path: res.Result.Path})
		}
	}
	s.remember(paths)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"agents":  responses,
	})
}

// GET /obstacles[?row=R&col=C] - List obstacles, optionally those covering a cell
func (s *Server) obstaclesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if q.Get("row") == "" && q.Get("col") == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"obstacles": s.world.Obstacles()})
		return
	}

	row, errRow := strconv.Atoi(q.Get("row"))
	col, errCol := strconv.Atoi(q.Get("col"))
	if errRow != nil || errCol != nil {
		http.Error(w, "row and col must be integers", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cell":      Cell{Row: row, Col: col},
		"obstacles": s.world.ObstaclesAt(Cell{Row: row, Col: col}),
	})
}

// POST /obstacles/regenerate - Move every non-static obstacle
func (s *Server) regenerateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.world.Regenerate(); err != nil {
		log.Printf("❌ Regenerate failed: %v\n", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.remember(nil)

	grid := s.world.Snapshot()
	log.Printf("🔄 Obstacles regenerated (%d blocked cells)\n", grid.BlockedCount())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"blockedCells": grid.BlockedCount(),
	})
}

// GET /paths.geojson - Paths from the most recent planning request
func (s *Server) geojsonHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	paths := s.lastPaths
	s.mu.RUnlock()

	compact := r.URL.Query().Get("compact") == "true"
	data, err := PathsToGeoJSON(paths, compact).MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// GET /plot.png[?scale=N] - The current field with the most recent paths drawn on it
func (s *Server) plotHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scale := 8
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 32 {
			http.Error(w, "scale must be an integer between 1 and 32", http.StatusBadRequest)
			return
		}
		scale = n
	}

	s.mu.RLock()
	paths := s.lastPaths
	s.mu.RUnlock()

	frame := StepFrame{Grid: s.world.Snapshot()}
	for i, p := range paths {
		if len(p.Path) == 0 {
			continue
		}
		if i == 0 {
			frame.Start, frame.Goal = p.Path[0], p.Path[len(p.Path)-1]
		}
		switch {
		case p.Agent != "":
			frame.Agents = append(frame.Agents, AgentResult{
				Agent:  Agent{Name: p.Agent, Start: p.Path[0], Goal: p.Path[len(p.Path)-1]},
				Result: Result{Found: true, Path: p.Path},
			})
		case p.Algorithm == AStar.String():
			frame.AStarPath = p.Path
		default:
			frame.ThetaPath = p.Path
		}
	}

	w.Header().Set("Content-Type", "image/png")
	if err := WriteComparisonPNG(w, frame, scale); err != nil {
		log.Printf("⚠️  Failed to encode plot: %v\n", err)
	}
}

// GET /grid - The current field as text, one row per line
func (s *Server) gridHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(FormatGrid(s.world.Snapshot())))
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	grid := s.world.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ready",
		"height":       grid.Height(),
		"width":        grid.Width(),
		"blockedCells": grid.BlockedCount(),
		"obstacles":    len(s.world.Obstacles()),
	})
}

func (s *Server) remember(paths []PathFeature) {
	s.mu.Lock()
	s.lastPaths = paths
	s.mu.Unlock()
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, ErrBudgetExceeded), errors.Is(err, context.DeadlineExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
