package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"segpipe/internal/config"
	"segpipe/internal/dataset"
	"segpipe/internal/pipeline"
)

func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	dataDir := flag.String("data-dir", "", "artifact store directory (overrides config)")
	raw := flag.String("raw", "", "raw transaction artifact name (overrides config)")
	out := flag.String("out", "", "final feature artifact name (overrides config)")
	contamination := flag.Float64("contamination", 0, "outlier contamination fraction (overrides config)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFromFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *raw != "" {
		cfg.Data.RawArtifact = *raw
	}
	if *out != "" {
		cfg.Data.FinalArtifact = *out
	}
	if *contamination > 0 {
		cfg.Features.Contamination = *contamination
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Logging)
	slog.SetDefault(logger)

	store := dataset.NewStore(cfg.Data.Dir)
	runner := pipeline.NewRunner(store, logger, pipeline.Chain(cfg))
	if _, err := runner.Run(context.Background()); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}
