package main

import (
	"flag"
	"log"

	"pulse/internal/platform/config"
	"pulse/internal/platform/database"
)

// Provisions a fresh data directory without starting the server. The server
// also applies the schema on startup, so this is only needed for ahead-of-time
// setup (containers, read-only runtime users).
func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Printf("Schema applied at %s", cfg.Database.Path)
}
