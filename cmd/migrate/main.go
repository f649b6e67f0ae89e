package main

import (
	"log"

	"github.com/joho/godotenv"

	"lompakko/internal/infrastructure/postgres"
	"lompakko/internal/shared/config"
)

// Applies pending database migrations and exits. The API server runs
// them on startup too; this exists for deploy pipelines that migrate
// before rolling instances.
func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Database migrations applied")
}
