// Package main provides the Nelson dataset builder CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/DrZ199/Nelsonbook/internal/config"
	"github.com/DrZ199/Nelsonbook/internal/observability"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "nelson-engine",
	Short: "Build a structured pediatric reference dataset from textbook part files",
	Long: `nelson-engine turns the plain-text volumes of a pediatric textbook into a
normalized relational dataset.

Use this tool to:
- Parse part files into volumes, parts, chapters, sections, and content blocks
- Mine drug mentions, dosage facts, and medical conditions from the text
- Export the dataset as CSV files and a SQL load script
- Upload the dataset into Postgres or SQLite
- Generate embeddings for content blocks

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file if it exists (ignore error if not found)
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      logFormat,
			ServiceName: "nelson-engine",
		})

		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newEmbedCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Version info, set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nelson-engine %s (%s)\n", version, commit)
		},
	}
}
