// Package httpapi provides the HTTP adapter for docintake.
// It exposes ingestion, keyword search and corpus listing over echo.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("httpapi: ingest service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("httpapi: retrieval service is required")

// Error codes carried in the "error" field of failure responses.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeAIInterpretation = "AI_INTERPRETATION_ERROR"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// Client-facing messages, kept in the language the service has always answered in.
const (
	msgMissingFile      = "Nenhum arquivo enviado no campo 'file'."
	msgAIInterpretation = "Erro ao interpretar os dados do documento."
	msgInternal         = "Erro interno ao processar documento."
	msgSearchFailed     = "Erro interno ao consultar metadados."
)

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ingestFailure maps a pipeline error to its status and body.
// Only classification failures get their own code; everything else is internal.
func ingestFailure(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: err.Error()}
	case errors.Is(err, domain.ErrClassificationUnavailable):
		return http.StatusInternalServerError, ErrorResponse{Error: CodeAIInterpretation, Message: msgAIInterpretation}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: CodeInternal, Message: msgInternal}
	}
}

// errorHandler renders echo's own errors (404, 405, body limit) in the same shape.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := ErrorResponse{Error: CodeInternal, Message: msgInternal}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		body.Message = http.StatusText(code)
		if msg, ok := he.Message.(string); ok && msg != "" {
			body.Message = msg
		}
		if code < http.StatusInternalServerError {
			body.Error = CodeInvalidRequest
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
