package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docintake/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  POST /analisar     ingest a document sent as multipart field "file"
  GET  /buscar?q=    keyword search over the corpus
  GET  /metadados    list the whole corpus
  GET  /healthz      liveness and corpus size
  GET  /metrics      Prometheus metrics (when server.metrics is enabled)

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from server.addr, \":3000\")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || retrievalService == nil {
		return errors.New("ingest and retrieval services not configured")
	}

	settings := domain.DefaultAppSettings().Server
	if appSettings != nil {
		settings = appSettings.Server
	}
	addr := settings.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	opts := []httpapi.Option{httpapi.WithBodyLimit(settings.BodyLimit)}
	if settings.Metrics && appMetrics != nil {
		opts = append(opts, httpapi.WithMetrics(appMetrics))
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingest:    ingestService,
		Retrieval: retrievalService,
	}, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchPrompts != nil {
		go func() {
			if err := watchPrompts(ctx); err != nil {
				logger.Warn("Prompt hot reload disabled: %v", err)
			}
		}()
	}

	cmd.Printf("docintake %s listening on %s\n", version, addr)
	return server.Run(ctx, addr)
}
