package main

import (
	"github.com/sirupsen/logrus"

	"github.com/musiq-plus/backend/internal/api"
	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/config"
	"github.com/musiq-plus/backend/internal/engine"
	"github.com/musiq-plus/backend/internal/evaluate"
	"github.com/musiq-plus/backend/internal/rating"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "recommender-api")

	entry.Info("Starting Musiq+ Recommender API Service")

	// 1. Config
	cfg := config.Load()

	// 2. Catalog (read-only, loaded once)
	cat, err := catalog.Load(cfg.Data.ItemsFile)
	if err != nil {
		entry.Fatalf("Failed to load catalog: %v", err)
	}
	entry.Infof("Loaded %d catalog items", cat.Len())

	// 3. Rating store
	ratings, err := rating.Open(cfg.Data.RatingsFile)
	if err != nil {
		entry.Fatalf("Failed to open rating store: %v", err)
	}

	// 4. Ground-truth relevance oracle
	oracle, err := evaluate.LoadOracle(cfg.Data.GroundTruthFile)
	if err != nil {
		entry.Fatalf("Failed to load ground truth: %v", err)
	}

	// 5. Engine + API Server
	eng := engine.NewEngine(cfg, entry, cat, ratings, oracle)
	server := api.NewServer(eng, entry)

	entry.Infof("Musiq+ API ready on %s", cfg.Server.Port)
	if err := server.Start(cfg.Server.Port); err != nil {
		entry.Fatal(err)
	}
}
