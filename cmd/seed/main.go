package main

import (
	"context"
	"log"
	"os"

	"kickslab/internal/config"
	"kickslab/internal/db"
	snapshotrepo "kickslab/internal/repository/snapshotdoc"
	"kickslab/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	repo := snapshotrepo.NewPostgres(pool, logger)
	if err := seed.Apply(ctx, repo); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
