// Command plansolve loads a planning input document, runs the ALNS
// search to a schedule, and prints the resulting routes while recording
// the run in a SQLite analytics database.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/config"
	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/database"
	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/ioformat"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/alns"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/builder"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

func main() {
	var (
		configPath   = flag.String("config", "configs/plansolve_config.json", "Path to plansolve config")
		inputPath    = flag.String("input", "", "Path to planning input JSON (overrides config)")
		dbPath       = flag.String("db", "", "Path to SQLite database file (overrides config)")
		iterations   = flag.Int("iterations", 0, "ALNS iteration count (overrides config)")
		periodeStart = flag.String("periode-start", "", "Reference date for leg weekday resolution, YYYY-MM-DD (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("no config at %s, using defaults: %v", *configPath, err)
		cfg = config.Default()
	}
	if *inputPath != "" {
		cfg.InputPath = *inputPath
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *iterations > 0 {
		cfg.Iterations = *iterations
	}
	if *periodeStart != "" {
		cfg.PeriodeStart = *periodeStart
	}

	periode := time.Now()
	if cfg.PeriodeStart != "" {
		periode, err = time.Parse("2006-01-02", cfg.PeriodeStart)
		if err != nil {
			log.Fatalf("invalid periode_start %q: %v", cfg.PeriodeStart, err)
		}
	}

	log.Printf("reading planning input from %s", cfg.InputPath)
	f, err := os.Open(cfg.InputPath)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	in, err := ioformat.BindJSON(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to bind input: %v", err)
	}

	p, synth, err := in.ToPlanning(cfg.RunName, periode)
	if err != nil {
		log.Fatalf("failed to build planning: %v", err)
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("failed to create database directory: %v", err)
		}
	}
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()
	repo := database.NewRepository(db)

	runID := database.NewRunID()
	run := &database.Run{
		ID: runID, Name: cfg.RunName, StartTime: time.Now(), Status: "running",
	}
	if err := repo.CreateRun(run); err != nil {
		log.Fatalf("failed to create run record: %v", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	b := builder.New(p, synth, rng)

	log.Printf("starting ALNS search: %d iterations", cfg.Iterations)
	start := time.Now()
	result, err := alns.Run(context.Background(), p, b, cfg.ALNSConfig())
	if err != nil {
		_ = repo.FinishRun(runID, "failed", 0, 0)
		log.Fatalf("ALNS search failed: %v", err)
	}
	duration := time.Since(start)
	log.Printf("search completed in %v: initial cost %.2f, best cost %.2f", duration, result.InitialCost, result.BestCost)

	if err := repo.FinishRun(runID, "completed", result.InitialCost, result.BestCost); err != nil {
		log.Fatalf("failed to finish run record: %v", err)
	}

	records := make([]database.IterationRecord, 0, len(result.History))
	for _, h := range result.History {
		records = append(records, database.IterationRecord{
			RunID: runID, Iteration: h.Iteration, Timestamp: time.Now(),
			DestroyOperator: h.Destroy, RepairOperator: h.Repair,
			Objective: h.Objective, Outcome: h.Outcome.String(),
		})
	}
	if err := repo.BatchSaveIterationRecords(records); err != nil {
		log.Fatalf("failed to save iteration history: %v", err)
	}

	printRoutes(result.Best)
	log.Printf("run stored with id %s; start planserver -db %s to browse it", runID, cfg.DBPath)
}

// printRoutes renders the routes_per_order view as a table: one row per
// distinct route, its order, stop count, and aggregate cost figures.
func printRoutes(p *planning.Planning) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Order", "Stops", "Aantal", "Prijs", "Emissie", "Boete"})

	for _, orderRoutes := range ioformat.RoutesPerOrder(p) {
		for _, route := range orderRoutes.Routes {
			table.Append([]string{
				strconv.Itoa(orderRoutes.OrderID),
				strconv.Itoa(len(route.Route)),
				strconv.Itoa(route.Aantal),
				strconv.FormatFloat(route.Prijs, 'f', 2, 64),
				strconv.FormatFloat(route.Emissie, 'f', 2, 64),
				strconv.FormatFloat(route.Boete, 'f', 2, 64),
			})
		}
	}
	table.Render()
}
