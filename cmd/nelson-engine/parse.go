package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrZ199/Nelsonbook/internal/export"
	"github.com/DrZ199/Nelsonbook/internal/pipeline"
)

// newParseCmd creates the parse subcommand.
func newParseCmd() *cobra.Command {
	var (
		inputDir  string
		outputDir string
		skipSQL   bool
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse textbook part files and export the dataset",
		Long: `Parse reads every nelson_part_N.txt file from the input directory, builds
the full relational dataset, and writes one CSV per table plus a SQL load
script into the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			if inputDir == "" {
				inputDir = cfg.Corpus.InputDir
			}
			if outputDir == "" {
				outputDir = cfg.Export.OutputDir
			}

			ui := NewUI(outputJSON)

			stop := ui.Spinner("Parsing part files...")
			p := pipeline.NewPipeline(pipeline.Config{InputDir: inputDir}, logger)
			res, err := p.Run(ctx)
			stop()
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			if err := export.WriteCSV(p.Dataset(), outputDir); err != nil {
				return fmt.Errorf("export csv: %w", err)
			}

			sqlPath := filepath.Join(outputDir, "dataset.sql")
			if !skipSQL {
				opts := export.SQLOptions{
					BatchSize:     cfg.Export.SQLBatchSize,
					MaxContentLen: cfg.Export.MaxContentLen,
				}
				if err := export.WriteSQL(p.Dataset(), sqlPath, opts); err != nil {
					return fmt.Errorf("export sql: %w", err)
				}
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(res)
			}

			ui.Success("Parsed %d file(s) in %s", res.Files, res.Duration.Round(time.Millisecond))
			for _, f := range res.FailedFiles {
				ui.Warning("skipped unreadable file %s", f)
			}
			ui.Field("Volumes", "%d", res.Volumes)
			ui.Field("Parts", "%d", res.Parts)
			ui.Field("Chapters", "%d", res.Chapters)
			ui.Field("Sections", "%d", res.Sections)
			ui.Field("Content blocks", "%d", res.Blocks)
			ui.Field("Conditions", "%d", res.Conditions)
			ui.Field("Drugs", "%d", res.Drugs)
			ui.Field("Dosages", "%d", res.Dosages)
			ui.Info("")
			ui.Info("Dataset written to %s", outputDir)
			if !skipSQL {
				ui.Info("SQL script written to %s", sqlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory with nelson_part_N.txt files")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for CSV/SQL files")
	cmd.Flags().BoolVar(&skipSQL, "skip-sql", false, "skip SQL script generation")
	return cmd
}
