package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

func TestExtractStoredName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "docintake://documents/3f2a.pdf",
			expected: "3f2a.pdf",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/3f2a.pdf",
			expected: "",
		},
		{
			name:     "collection URI",
			uri:      "docintake://documents",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "docintake://documents/a/b",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractStoredName(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty corpus returns empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docintake://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns documents in order", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{records: corpus(3)}})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docintake://documents"))

		require.NoError(t, err)
		var docs []DocumentOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &docs))
		require.Len(t, docs, 3)
		assert.Equal(t, "stored-0.pdf", docs[0].StoredName)
		assert.Equal(t, "stored-2.pdf", docs[2].StoredName)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{err: errors.New("store closed")}})
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest("docintake://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentTextResource(t *testing.T) {
	ctx := context.Background()

	records := []domain.MetadataRecord{
		{StoredName: "a.txt", FullText: "first document"},
		{StoredName: "b.txt", FullText: "second document"},
	}

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{records: records}})
		require.NoError(t, err)

		_, err = server.handleDocumentTextResource(ctx, makeReadResourceRequest("docintake://invalid/uri"))

		require.Error(t, err)
	})

	t.Run("unknown document returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{records: records}})
		require.NoError(t, err)

		_, err = server.handleDocumentTextResource(ctx, makeReadResourceRequest("docintake://documents/zzz.txt"))

		require.Error(t, err)
	})

	t.Run("returns full text", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{records: records}})
		require.NoError(t, err)

		result, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("docintake://documents/b.txt"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "second document", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{err: errors.New("boom")}})
		require.NoError(t, err)

		_, err = server.handleDocumentTextResource(ctx, makeReadResourceRequest("docintake://documents/a.txt"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting document text")
	})
}
