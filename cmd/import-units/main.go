// Command import-units loads curriculum units from a CSV or YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/score-tracker-api/internal/importer"
	"github.com/noah-isme/score-tracker-api/internal/repository"
	"github.com/noah-isme/score-tracker-api/internal/service"
	"github.com/noah-isme/score-tracker-api/pkg/cache"
	"github.com/noah-isme/score-tracker-api/pkg/config"
	"github.com/noah-isme/score-tracker-api/pkg/database"
	"github.com/noah-isme/score-tracker-api/pkg/logger"
)

func main() {
	var (
		file    = flag.String("file", "", "path to a .csv, .yaml or .yml curriculum file")
		replace = flag.Bool("replace", false, "delete existing units before loading")
		timeout = flag.Duration("timeout", time.Minute, "overall import timeout")
	)
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import-units -file units.csv [-replace]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	f, err := os.Open(*file)
	if err != nil {
		logr.Fatal("failed to open curriculum file", zap.String("file", *file), zap.Error(err))
	}
	units, err := importer.Decode(*file, f)
	_ = f.Close()
	if err != nil {
		logr.Fatal("failed to parse curriculum file", zap.String("file", *file), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, cached curriculum will expire on its own", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, "score-tracker:", logr), nil, cfg.Curriculum.CacheTTL, logr, redisClient != nil)

	svc := service.NewCurriculumService(repository.NewUnitRepository(db), cacheSvc, nil, cfg.Curriculum, logr)
	n, err := svc.Import(ctx, units, *replace)
	if err != nil {
		logr.Fatal("import failed", zap.Error(err))
	}
	fmt.Printf("imported %d units from %s\n", n, *file)
}
