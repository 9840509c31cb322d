// Package cmd provides the CLI commands for rollerstone.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rollerstone-site/internal/config"
	"rollerstone-site/pkg/logger"
)

var (
	verbose   bool
	logFormat string

	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rollerstone",
	Short: "Roller Stone estimator and case gallery",
	Long: `rollerstone serves the Roller Stone cost estimator, renders the
before/after case gallery and manages customer inquiries.

Configuration comes from the environment (HTTP_ADDR, DB_HOST, REDIS_ADDR,
TELEGRAM_TOKEN, ...). Backends without an address are disabled.

Examples:
  rollerstone quote 35
  rollerstone tiers --area 20
  rollerstone gallery build --cases ./cases --out ./site
  rollerstone serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		opts := logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
		if logFormat != "" {
			opts.Format = logFormat
		}
		if verbose {
			opts.Level = "debug"
			opts.Development = true
		}
		log, err = logger.NewWithOptions(opts)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or console (default from LOG_FORMAT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(inquiriesCmd)
}
