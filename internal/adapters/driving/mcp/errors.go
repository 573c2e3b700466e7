// Package mcp provides an MCP (Model Context Protocol) server adapter for docintake.
// It lets AI assistants search the corpus, read ingested documents and submit new ones.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrIngestDisabled is returned by the ingest tool when no ingest service is wired.
var ErrIngestDisabled = errors.New("mcp: ingestion is not enabled")

// ErrPathOutsideRoot is returned by the ingest tool for paths outside the ingest root.
var ErrPathOutsideRoot = errors.New("mcp: path is outside the ingest root")
