package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docintake/internal/logger"
)

const (
	serverName = "docintake"

	// DefaultVersion is reported when no build version is supplied.
	DefaultVersion = "dev"

	shutdownTimeout = 5 * time.Second

	readWriteInstructions = "Searches a corpus of ingested documents and their extracted metadata. " +
		"Use search for keyword lookups, list_documents to page through the corpus, " +
		"and ingest_file to add a local file."
	readOnlyInstructions = "Searches a corpus of ingested documents and their extracted metadata. " +
		"Use search for keyword lookups and list_documents to page through the corpus."
)

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the implementation version advertised to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// WithIngestRoot confines ingest_file to files under dir.
func WithIngestRoot(dir string) Option {
	return func(s *Server) {
		s.ingestRoot = dir
	}
}

// Server exposes the corpus over the Model Context Protocol.
type Server struct {
	ports      *Ports
	version    string
	ingestRoot string
	server     *mcp.Server
}

// NewServer creates an MCP server. The ingest_file tool is registered only
// when ports.Ingest is set.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, version: DefaultVersion}
	for _, opt := range opts {
		opt(s)
	}
	if s.ingestRoot != "" {
		root, err := resolvePath(s.ingestRoot)
		if err != nil {
			return nil, fmt.Errorf("ingest root: %w", err)
		}
		s.ingestRoot = root
	}

	instructions := readOnlyInstructions
	if ports.Ingest != nil {
		instructions = readWriteInstructions
	}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: s.version},
		&mcp.ServerOptions{Instructions: instructions},
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// IngestRoot returns the resolved ingest root, or "" when unrestricted.
func (s *Server) IngestRoot() string {
	return s.ingestRoot
}

// Version returns the advertised implementation version.
func (s *Server) Version() string {
	return s.version
}

// Run serves JSON-RPC over stdio until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP transport for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves the streamable HTTP transport on addr until ctx ends.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp: listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mcp: shutdown: %w", err)
	}
	return nil
}
