package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"quiz_engine/internal/app"
	"quiz_engine/internal/config"
	"quiz_engine/pkg/logger"
	"quiz_engine/pkg/monitoring"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	migrateOnly := flag.Bool("migrate-only", false, "run the schema migration and exit")
	seed := flag.Bool("seed", false, "load the sample question bank and quizzes")
	validate := flag.Bool("validate", false, "check question bank integrity")
	metrics := flag.Bool("metrics", false, "print metrics in Prometheus text format before exiting")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer application.Close()

	if *migrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		return
	}

	ctx := context.Background()

	if *seed {
		if _, err := application.Services.Seed.Seed(ctx); err != nil {
			logger.Log.Error("Failed to load sample data", zap.Error(err))
			return
		}
	}

	if *validate {
		if _, err := application.ValidateBank(ctx); err != nil {
			logger.Log.Error("Failed to validate question bank", zap.Error(err))
			return
		}
	}

	if *metrics {
		out, err := monitoring.Dump()
		if err != nil {
			logger.Log.Error("Failed to gather metrics", zap.Error(err))
			return
		}
		fmt.Print(out)
	}
}
