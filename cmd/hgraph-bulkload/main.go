// Command hgraph-bulkload loads a Parquet dataset of (label, vector) rows
// and builds an HGraph index from it, writing the serialized result to
// disk (SPEC_FULL §11).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/vectorshelf/hgraph"
	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/loader"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hgraph-bulkload:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // optional .env; environment variables still win

	cfg, err := loader.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	metric, err := distance.ParseMetric(cfg.Metric)
	if err != nil {
		return fmt.Errorf("metric: %w", err)
	}

	labels, vectors, err := loader.LoadParquet(cfg.ParquetPath)
	if err != nil {
		return fmt.Errorf("load parquet: %w", err)
	}
	if cfg.Dim != 0 && len(vectors) > 0 && len(vectors[0]) != cfg.Dim {
		return fmt.Errorf("dim mismatch: config says %d, first row has %d", cfg.Dim, len(vectors[0]))
	}

	logger := hgraph.NewTextLogger(slog.LevelInfo)
	g, err := hgraph.New(cfg.Dim,
		hgraph.WithMetric(metric),
		hgraph.WithMaxDegree(cfg.MaxDegree),
		hgraph.WithEfConstruction(cfg.EfConstruction),
		hgraph.WithBuildThreadCount(cfg.BuildThreadCount),
		hgraph.WithReorder(cfg.UseReorder),
		hgraph.WithCompression(cfg.Compress),
		hgraph.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("new index: %w", err)
	}

	ctx := context.Background()
	failed, err := g.Add(ctx, labels, vectors, nil)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if len(failed) > 0 {
		logger.Warn("bulkload: rejected duplicate labels", "count", len(failed))
	}

	data, err := g.Serialize()
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.OutputPath, err)
	}

	logger.Info("bulkload complete", "rows", len(labels), "failed", len(failed), "output", cfg.OutputPath, "bytes", len(data))
	return nil
}
