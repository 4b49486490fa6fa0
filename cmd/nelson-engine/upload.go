package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrZ199/Nelsonbook/internal/pipeline"
	"github.com/DrZ199/Nelsonbook/internal/storage"
	"github.com/DrZ199/Nelsonbook/internal/upload"
)

// newUploadCmd creates the upload subcommand.
func newUploadCmd() *cobra.Command {
	var (
		inputDir   string
		batchSize  int
		initSchema bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Parse the corpus and upload the dataset into the database",
		Long: `Upload parses the part files and inserts the resulting rows into the
configured database in dependency order, in batches. Failed batches are
retried with backoff and then skipped, so one bad batch never aborts the
whole run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
			defer cancel()

			if inputDir == "" {
				inputDir = cfg.Corpus.InputDir
			}
			if batchSize == 0 {
				batchSize = cfg.Upload.BatchSize
			}

			ui := NewUI(outputJSON)

			stop := ui.Spinner("Parsing part files...")
			p := pipeline.NewPipeline(pipeline.Config{InputDir: inputDir}, logger)
			res, err := p.Run(ctx)
			stop()
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			ui.Success("Parsed %d file(s): %d blocks, %d drugs, %d conditions",
				res.Files, res.Blocks, res.Drugs, res.Conditions)

			db, err := storage.Open(ctx, storage.DBConfig{
				Driver:          cfg.Database.Driver,
				DSN:             cfg.DatabaseDSN(),
				MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
				MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
				ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
			})
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if initSchema {
				if err := storage.ApplySchema(ctx, db); err != nil {
					return fmt.Errorf("apply schema: %w", err)
				}
				ui.Success("Schema applied")
			}

			uploader := upload.New(storage.NewRepositories(db), upload.Config{
				BatchSize:    batchSize,
				Delay:        cfg.Upload.Delay,
				MaxRetries:   cfg.Upload.MaxRetries,
				RetryBackoff: cfg.Upload.RetryBackoff,
				Progress:     !noProgress && !outputJSON,
			}, logger)

			summary, err := uploader.UploadDataset(ctx, p.Dataset())
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(summary)
			}

			total := 0
			for _, n := range summary.Uploaded {
				total += n
			}
			ui.Success("Uploaded %d row(s) in %s (job %s)",
				total, summary.Duration.Round(time.Millisecond), summary.JobID)
			if summary.FailedBatches > 0 {
				ui.Warning("%d batch(es) failed and were skipped", summary.FailedBatches)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory with nelson_part_N.txt files")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per INSERT batch")
	cmd.Flags().BoolVar(&initSchema, "init-schema", false, "create tables before uploading")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress bars")
	return cmd
}
