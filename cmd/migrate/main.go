package main

import (
	"context"
	"flag"
	"log"

	"github.com/hasdev/api-gateway/pkg/db"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	rollback := flag.Bool("rollback", false, "Roll back the last migration group")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("ℹ No .env file found")
	} else {
		log.Println("✓ Loaded .env file")
	}

	ctx := context.Background()
	logger := gwlog.NewDefault()

	var cfg db.Config
	if err := envconfig.Process("DB", &cfg); err != nil {
		logger.Fatalf("failed to process env vars: %v", err)
	}

	database, err := db.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	if *rollback {
		logger.Info("Rolling back last migration group...")
		if err := db.Rollback(ctx, database, logger); err != nil {
			logger.Fatalf("failed to roll back: %v", err)
		}
		return
	}

	logger.Info("Running migrations...")
	if err := db.Migrate(ctx, database, logger); err != nil {
		logger.Fatalf("failed to migrate: %v", err)
	}
	logger.Info("Migrations completed successfully.")
}
