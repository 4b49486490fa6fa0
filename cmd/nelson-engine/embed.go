package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrZ199/Nelsonbook/internal/cache"
	"github.com/DrZ199/Nelsonbook/internal/embedding"
	"github.com/DrZ199/Nelsonbook/internal/export"
	"github.com/DrZ199/Nelsonbook/internal/pipeline"
)

// newEmbedCmd creates the embed subcommand.
func newEmbedCmd() *cobra.Command {
	var (
		inputDir  string
		outputDir string
		useMock   bool
	)

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate embeddings for every content block",
		Long: `Embed parses the part files and generates one embedding vector per content
block, writing them to embeddings.csv in the output directory. Vectors are
cached by content hash, so rerunning over an unchanged corpus makes no API
calls.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
			defer cancel()

			if inputDir == "" {
				inputDir = cfg.Corpus.InputDir
			}
			if outputDir == "" {
				outputDir = cfg.Export.OutputDir
			}

			ui := NewUI(outputJSON)

			embedder, err := buildEmbedder(useMock)
			if err != nil {
				return err
			}

			ec, closeCache := buildEmbeddingCache(embedder.Model())
			defer closeCache()

			stop := ui.Spinner("Parsing part files...")
			p := pipeline.NewPipeline(pipeline.Config{InputDir: inputDir}, logger)
			res, err := p.Run(ctx)
			stop()
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			ui.Success("Parsed %d file(s): %d content block(s)", res.Files, res.Blocks)

			gen := embedding.NewGenerator(embedder, ec, cfg.Embedding.BatchSize, logger)
			bar := ui.ProgressBar(res.Blocks, "embedding")
			if bar != nil {
				gen.Progress = func(done, total int) {
					_ = bar.Set(done)
				}
			}

			embs, stats, err := gen.Generate(ctx, p.Dataset().Blocks)
			if err != nil {
				return fmt.Errorf("embed: %w", err)
			}
			if bar != nil {
				_ = bar.Finish()
			}

			if err := export.WriteEmbeddings(embs, outputDir); err != nil {
				return fmt.Errorf("write embeddings: %w", err)
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(stats)
			}

			ui.Success("Embedded %d block(s) with %s", stats.Total, embedder.Model())
			ui.Field("From cache", "%d", stats.Cached)
			ui.Field("API calls", "%d", stats.Calls)
			ui.Info("Embeddings written to %s", outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory with nelson_part_N.txt files")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for embeddings.csv")
	cmd.Flags().BoolVar(&useMock, "mock", false, "use deterministic mock embeddings (no API key needed)")
	return cmd
}

func buildEmbedder(useMock bool) (embedding.Embedder, error) {
	if useMock {
		return embedding.NewMockClient(cfg.Embedding.Dimension), nil
	}
	if cfg.Embedding.APIKey == "" {
		return nil, fmt.Errorf("embedding API key is required (set OPENROUTER_API_KEY or use --mock)")
	}
	return embedding.NewClient(embedding.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimension:  cfg.Embedding.Dimension,
		MaxRetries: cfg.Embedding.MaxRetries,
		RetryDelay: cfg.Embedding.RetryDelay,
	})
}

// buildEmbeddingCache returns the configured cache and a close func. A cache
// failure is not fatal; the run just pays for every embedding.
func buildEmbeddingCache(model string) (*cache.EmbeddingCache, func()) {
	var client cache.Client
	switch cfg.Cache.Driver {
	case "redis":
		rc, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
			client = cache.NewMemoryClient(cfg.Cache.MaxEntries)
		} else {
			client = rc
		}
	default:
		client = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	ec := cache.NewEmbeddingCache(client, model, cfg.Cache.TTL)
	return ec, func() { _ = client.Close() }
}
