package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docintake resources.
	uriScheme = "docintake://"

	documentsPrefix = uriScheme + "documents/"
)

// documentURI is the resource URI of one stored document.
func documentURI(storedName string) string {
	return documentsPrefix + storedName
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Metadata of every ingested document, text cut to an excerpt",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsPrefix + "{storedName}",
		Name:        "document-text",
		Description: "Full extracted text of one ingested document",
		MIMEType:    "text/plain",
	}, s.handleDocumentTextResource)
}

// handleDocumentsResource returns the corpus as a JSON array.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Retrieval.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]DocumentOutput, len(records))
	for i := range records {
		infos[i] = documentOutput(records[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentTextResource returns the full text of one document.
func (s *Server) handleDocumentTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	storedName := extractStoredName(req.Params.URI)
	if storedName == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Retrieval.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting document text: %w", err)
	}

	for i := range records {
		if records[i].StoredName == storedName {
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{{
					URI:      req.Params.URI,
					MIMEType: "text/plain",
					Text:     records[i].FullText,
				}},
			}, nil
		}
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractStoredName extracts the stored name from a URI like docintake://documents/{storedName}.
func extractStoredName(uri string) string {
	if !strings.HasPrefix(uri, documentsPrefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, documentsPrefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
