package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML run configuration (defaults built in)")
		gridFile   = flag.String("grid", "", "Static base map file ('.' free, '#' blocked)")
		steps      = flag.Int("steps", -1, "Number of obstacle regenerations (overrides config)")
		seed       = flag.Int64("seed", 0, "Random seed (0 = time based, overrides config when set)")
		losCap     = flag.Float64("los-cap", -1, "Theta* line-of-sight cap in cells, 0 = unlimited (overrides config)")
		pngDir     = flag.String("png", "", "Write a comparison plot per step into this directory")
		geojsonOut = flag.String("geojson", "", "Write the last step's paths as GeoJSON")
		history    = flag.String("history", "", "Persist run reports under this application name")
		interact   = flag.Bool("tui", false, "Step through the run in the terminal")
		serve      = flag.Bool("serve", false, "Serve the HTTP API instead of running the comparison")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := buildConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if *gridFile != "" {
		cfg.Grid.File = *gridFile
	}
	if *steps >= 0 {
		cfg.Steps = *steps
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *losCap >= 0 {
		cfg.Search.LineOfSightCap = *losCap
	}
	if *pngDir != "" {
		cfg.Output.PNGDir = *pngDir
	}
	if *geojsonOut != "" {
		cfg.Output.GeoJSON = *geojsonOut
	}
	if *history != "" {
		cfg.Output.History = *history
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Println("========================================")
	log.Println("🚀 Grid Replanner (A* vs Theta*)")
	log.Println("========================================")

	sim, err := NewSimulation(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	switch {
	case *serve:
		err = runServer(ctx, cfg, sim.World())
	case *interact:
		err = runTerminal(ctx, sim)
	default:
		err = runComparison(ctx, cfg, sim)
	}
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func buildConfig(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	return LoadConfig(path)
}

func runComparison(ctx context.Context, cfg *Config, sim *Simulation) error {
	if cfg.Output.PNGDir != "" {
		if err := os.MkdirAll(cfg.Output.PNGDir, 0755); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
	}

	var last StepFrame
	reports, err := sim.Run(ctx, func(frame StepFrame) {
		last = frame
		if cfg.Output.PNGDir == "" {
			return
		}
		if name, err := SaveComparisonPNG(cfg.Output.PNGDir, frame, 6); err != nil {
			log.Printf("⚠️  %v\n", err)
		} else {
			log.Printf("   🖼️  %s\n", name)
		}
	})
	if err != nil {
		return err
	}

	printSummary(reports)

	if cfg.Output.PNGDir != "" {
		if name, err := SaveTimingsPNG(cfg.Output.PNGDir, reports); err != nil {
			log.Printf("⚠️  %v\n", err)
		} else {
			log.Printf("📈 Timings plotted to %s\n", name)
		}
	}

	if cfg.Output.GeoJSON != "" {
		if err := SaveGeoJSON(cfg.Output.GeoJSON, FramePaths(last), cfg.Output.Compact); err != nil {
			return err
		}
		log.Printf("💾 Paths written to %s\n", cfg.Output.GeoJSON)
	}

	if cfg.Output.History != "" {
		h, err := OpenHistory(cfg.Output.History)
		if err != nil {
			log.Printf("⚠️  History disabled: %v\n", err)
			return nil
		}
		return h.Save(RunRecord{Finished: time.Now(), Seed: sim.Seed(), Steps: reports})
	}
	return nil
}

func printSummary(reports []StepReport) {
	var aTotal, tTotal time.Duration
	var aFound, tFound int
	for _, r := range reports {
		aTotal += r.AStar.Elapsed
		tTotal += r.ThetaStar.Elapsed
		if r.AStar.Found {
			aFound++
		}
		if r.ThetaStar.Found {
			tFound++
		}
	}
	n := time.Duration(max(len(reports), 1))
	log.Println("========================================")
	log.Printf("📊 A*:     %d/%d found, mean time %s\n", aFound, len(reports), aTotal/n)
	log.Printf("📊 Theta*: %d/%d found, mean time %s\n", tFound, len(reports), tTotal/n)
	log.Println("========================================")
}

func runTerminal(ctx context.Context, sim *Simulation) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	return RunTerminal(ctx, sim, screen)
}

func runServer(ctx context.Context, cfg *Config, world *World) error {
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: NewServer(world, cfg.Search.Parallelism, cfg.SearchOptions()...).Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s\n", cfg.Server.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /route                 - Plan one path (astar or thetastar)")
	log.Println("  POST /agents                - Plan a batch of independent agents")
	log.Println("  GET  /obstacles             - List obstacles (?row=&col= for one cell)")
	log.Println("  POST /obstacles/regenerate  - Move the obstacles")
	log.Println("  GET  /paths.geojson         - Last planned paths as GeoJSON")
	log.Println("  GET  /health                - Check server status")
	log.Println("========================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
