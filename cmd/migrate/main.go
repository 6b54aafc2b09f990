package main

import (
	"context"
	"flag"
	"log"

	"reviflow/internal/config"
	"reviflow/internal/database"
	"reviflow/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -direction=down (0 = all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		l.Fatal("Failed to load migrations", zap.Error(err))
	}

	ctx := context.Background()
	switch *direction {
	case "up":
		n, err := migrator.Up(ctx)
		if err != nil {
			l.Fatal("Failed to run migrations", zap.Error(err), zap.Int("applied", n))
		}
		l.Info("Migrations completed successfully", zap.Int("applied", n))
	case "down":
		n, err := migrator.Down(ctx, *steps)
		if err != nil {
			l.Fatal("Failed to roll back migrations", zap.Error(err), zap.Int("rolled_back", n))
		}
		l.Info("Rollback completed successfully", zap.Int("rolled_back", n))
	default:
		l.Fatal("Unknown migration direction", zap.String("direction", *direction))
	}
}
