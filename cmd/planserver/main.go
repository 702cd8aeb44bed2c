// Command planserver exposes a run's stored planning results over HTTP
// and lets new planning input documents be submitted and solved.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/api"
	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/database"
)

func main() {
	var (
		dbPath = flag.String("db", "planning.db", "Path to SQLite database file")
		port   = flag.String("port", "8080", "Port to run API server on")
	)
	flag.Parse()

	dbDir := filepath.Dir(*dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("failed to create database directory: %v", err)
		}
	}

	log.Printf("connecting to database at %s", *dbPath)
	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	log.Printf("starting planning API server on port %s", *port)
	server := api.NewServer(repo, *port)

	if err := server.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
