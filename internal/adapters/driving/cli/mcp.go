package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docintake/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the tools search, list_documents and ingest_file, and the
resources docintake://documents and docintake://documents/{storedName}.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead. The HTTP server binds to
127.0.0.1 unless --host says otherwise, and it leaves out ingest_file
unless --allow-ingest is given. --ingest-root limits ingest_file to files
under one directory in either mode.

Examples:
  # Stdio mode (default)
  docintake mcp serve

  # HTTP mode (for MCP Inspector)
  docintake mcp serve --port 8080

  # HTTP mode with ingestion confined to one directory
  docintake mcp serve --port 8080 --allow-ingest --ingest-root ~/documentos

Desktop assistant configuration:
  {
    "mcpServers": {
      "docintake": {
        "command": "/path/to/docintake",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

// defaultMCPHost keeps the HTTP transport off other interfaces.
const defaultMCPHost = "127.0.0.1"

var (
	mcpHost        string
	mcpReadOnly    bool
	mcpAllowIngest bool
	mcpIngestRoot  string
)

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", defaultMCPHost, "HTTP bind address")
	mcpServeCmd.Flags().BoolVar(&mcpReadOnly, "read-only", false, "disable the ingest_file tool")
	mcpServeCmd.Flags().BoolVar(&mcpAllowIngest, "allow-ingest", false, "enable ingest_file over HTTP")
	mcpServeCmd.Flags().StringVar(&mcpIngestRoot, "ingest-root", "", "only ingest files under this directory")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	httpMode := port > 0
	ports := mcpPorts(httpMode)

	opts := []mcp.Option{mcp.WithVersion(version)}
	if mcpIngestRoot != "" {
		opts = append(opts, mcp.WithIngestRoot(mcpIngestRoot))
	}
	server, err := mcp.NewServer(ports, opts...)
	if err != nil {
		return err
	}

	if httpMode {
		addr := net.JoinHostPort(mcpHost, strconv.Itoa(port))
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		if ports.Ingest == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ingest_file is disabled; pass --allow-ingest to enable it")
		}
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

// mcpPorts wires the retrieval service and, unless ingestion is off for this
// mode, the ingest service. Over HTTP ingestion needs --allow-ingest.
func mcpPorts(httpMode bool) *mcp.Ports {
	ports := &mcp.Ports{Retrieval: retrievalService}
	if mcpReadOnly || (httpMode && !mcpAllowIngest) {
		return ports
	}
	ports.Ingest = ingestService
	return ports
}
