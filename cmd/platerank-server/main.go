package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/platerank/platerank"
	"github.com/platerank/platerank/config"
	"github.com/platerank/platerank/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	configPath := flag.String("config", "configs/config.yml", "path to YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	store, err := platerank.ReviewStoreFromCSV(cfg.Data.CorpusCSV)
	if err != nil {
		logger.Fatal("Failed to load review corpus", zap.Error(err))
	}

	details, err := platerank.DetailsFromCSV(cfg.Data.DetailsCSV)
	if err != nil {
		logger.Fatal("Failed to load restaurant details", zap.Error(err))
	}

	model, err := platerank.ModelFromDisk(cfg.Data.ModelDir)
	if err != nil {
		logger.Fatal("Failed to load model artifacts", zap.Error(err))
	}
	if !model.SimilarityAvailable() {
		// Recorded once here; per-request the recommender silently runs in
		// fallback mode.
		logger.Warn("Similarity artifacts not found, recommendations use name/location fallback",
			zap.String("dir", cfg.Data.ModelDir))
	}

	engine, err := platerank.NewEngine(store, details, model)
	if err != nil {
		logger.Fatal("Failed to build engine", zap.Error(err))
	}
	logger.Info("Engine ready",
		zap.Int("reviews", store.Len()),
		zap.Int("details", len(details)),
		zap.Bool("similarity", model.SimilarityAvailable()))

	srv := server.New(engine, logger)
	if err := srv.Run(cfg.Server.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
