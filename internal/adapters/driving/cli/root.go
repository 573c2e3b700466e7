// Package cli provides the docintake command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driving"
	"github.com/custodia-labs/docintake/internal/logger"
	"github.com/custodia-labs/docintake/internal/metrics"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	configDir string
	dataDir   string
	verbose   bool
	logFormat string
)

// Services used by the commands. They are set by bootstrap, or directly by tests.
var (
	settingsService  driving.SettingsService
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService

	appSettings *domain.AppSettings
	appMetrics  *metrics.Metrics

	// watchPrompts reloads prompt templates on change until ctx ends. May be nil.
	watchPrompts func(ctx context.Context) error

	// closeServices releases what bootstrap opened. May be nil.
	closeServices func() error

	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "docintake",
	Short: "Extract, classify and search documents",
	Long: `docintake ingests documents (PDF, DOCX, XLSX, HTML, plain text), asks a
language model to classify them, keeps the resulting metadata in a local corpus
and reports how similar each new document is to the ones already ingested.

Run 'docintake serve' for the HTTP API or use the commands below directly.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docintake)")
	flags.StringVar(&dataDir, "data-dir", "", "directory holding the corpus and uploads")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&logFormat, "log-format", "", "log format: console or json")
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logFormat != "" {
		logger.SetFormat(logFormat)
	}
	if servicesReady {
		return nil
	}
	return bootstrap(cmd.Context())
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func shutdown() {
	if closeServices == nil {
		return
	}
	if err := closeServices(); err != nil {
		logger.Warn("Closing services: %v", err)
	}
	closeServices = nil
}
