package mcp

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// defaultLimit caps tool results when the caller gives no limit.
const defaultLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to look for in any metadata field or the document text; empty matches everything"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 10)"`
	Offset int `json:"offset,omitempty" jsonschema:"number of documents to skip, in ingestion order"`
}

// DocumentsOutput is the output schema for the search and list tools.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
	Total     int              `json:"total"`
}

// DocumentOutput summarises one corpus record.
type DocumentOutput struct {
	StoredName   string   `json:"stored_name"`
	OriginalName string   `json:"original_name"`
	URI          string   `json:"uri"`
	Title        string   `json:"title,omitempty"`
	Type         string   `json:"type,omitempty"`
	IssuingBody  string   `json:"issuing_body,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Language     string   `json:"language,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Pages        int      `json:"pages"`
	Excerpt      string   `json:"excerpt,omitempty"`
}

// IngestInput is the input schema for the ingest_file tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of a local document to ingest"`
}

// IngestOutput is the output schema for the ingest_file tool.
type IngestOutput struct {
	Document     DocumentOutput           `json:"document"`
	Similarities []domain.SimilarityMatch `json:"similarities"`
}

// registerTools registers the tool handlers. ingest_file is left out for
// read-only servers.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Keyword search across the metadata and text of every ingested document",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents in the order they were added",
	}, s.handleList)

	if s.ports.Ingest == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Classify a local document, add it to the corpus and report similar documents",
	}, s.handleIngest)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	records, err := s.ports.Retrieval.Search(ctx, input.Query)
	if err != nil {
		return nil, DocumentsOutput{}, err
	}
	return nil, documentsOutput(records, 0, input.Limit), nil
}

// handleList handles the list_documents tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	records, err := s.ports.Retrieval.List(ctx)
	if err != nil {
		return nil, DocumentsOutput{}, err
	}
	return nil, documentsOutput(records, input.Offset, input.Limit), nil
}

// handleIngest handles the ingest_file tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, ErrIngestDisabled
	}
	if input.Path == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	path, err := s.ingestPath(input.Path)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	name := filepath.Base(path)
	result, err := s.ports.Ingest.Ingest(ctx, domain.Upload{
		OriginalName: name,
		MIMEType:     mime.TypeByExtension(filepath.Ext(name)),
		Content:      content,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Document:     documentOutput(result.Metadata),
		Similarities: result.Similarities,
	}, nil
}

// ingestPath makes p absolute and, when an ingest root is set, rejects
// anything that resolves outside it. Symlinks are followed first.
func (s *Server) ingestPath(p string) (string, error) {
	if s.ingestRoot == "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return abs, nil
	}

	resolved, err := resolvePath(p)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	rel, err := filepath.Rel(s.ingestRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, p)
	}
	return resolved, nil
}

// resolvePath returns the absolute, symlink-free form of p.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func documentsOutput(records []domain.MetadataRecord, offset, limit int) DocumentsOutput {
	if limit <= 0 {
		limit = defaultLimit
	}
	offset = max(offset, 0)

	total := len(records)
	page := records[min(offset, total):]
	if len(page) > limit {
		page = page[:limit]
	}

	out := DocumentsOutput{
		Documents: make([]DocumentOutput, len(page)),
		Count:     len(page),
		Total:     total,
	}
	for i := range page {
		out.Documents[i] = documentOutput(page[i])
	}
	return out
}

func documentOutput(rec domain.MetadataRecord) DocumentOutput {
	return DocumentOutput{
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		URI:          documentURI(rec.StoredName),
		Title:        deref(rec.Title),
		Type:         deref(rec.Type),
		IssuingBody:  deref(rec.IssuingBody),
		Summary:      deref(rec.Summary),
		Language:     deref(rec.Language),
		Tags:         rec.Tags,
		Pages:        rec.PageCount,
		Excerpt:      rec.ListView(domain.DefaultExcerptLength).FullText,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
