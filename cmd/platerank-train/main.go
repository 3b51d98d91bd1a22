package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/platerank/platerank"
	"github.com/platerank/platerank/config"
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
	logger.Info("Corpus loaded",
		zap.String("path", cfg.Data.CorpusCSV),
		zap.Int("reviews", store.Len()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	trainer := platerank.NewTrainer(platerank.TrainingConfig{
		LearningRate: cfg.Training.LearningRate,
		Epochs:       cfg.Training.Epochs,
		BatchSize:    cfg.Training.BatchSize,
		MaxFeatures:  cfg.Training.MaxFeatures,
		Seed:         cfg.Training.Seed,
		Context:      ctx,
	})

	model, metrics, err := trainer.Train(store.Snapshot())
	if err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
	logger.Info("Training complete",
		zap.Int("samples", metrics.Samples),
		zap.Int("features", metrics.Features),
		zap.Int("positives", metrics.Positives),
		zap.Int("negatives", metrics.Negatives),
		zap.Float64("train_accuracy", metrics.TrainAccuracy),
		zap.Duration("duration", metrics.TrainingTime))

	if err := model.Write(cfg.Data.ModelDir); err != nil {
		logger.Fatal("Failed to write model artifacts", zap.Error(err))
	}
	logger.Info("Model artifacts written", zap.String("dir", cfg.Data.ModelDir))
}
