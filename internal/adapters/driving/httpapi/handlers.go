package httpapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/logger"
)

// uploadField is the multipart field carrying the document.
const uploadField = "file"

// healthTimeout bounds the corpus check behind /healthz.
const healthTimeout = 800 * time.Millisecond

// analyze handles POST /analisar.
func (s *Server) analyze(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   CodeInvalidRequest,
			Message: msgMissingFile,
		})
	}

	upload, err := readUpload(fh)
	if err != nil {
		logger.Error(err, "Reading upload %s", fh.Filename)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   CodeInternal,
			Message: msgInternal,
		})
	}

	result, err := s.ports.Ingest.Ingest(c.Request().Context(), upload)
	if err != nil {
		logger.Error(err, "Ingest failed for %s", upload.OriginalName)
		code, body := ingestFailure(err)
		return c.JSON(code, body)
	}

	return c.JSON(http.StatusOK, result)
}

func readUpload(fh *multipart.FileHeader) (domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	return domain.Upload{
		OriginalName: fh.Filename,
		MIMEType:     fh.Header.Get(echo.HeaderContentType),
		Content:      content,
	}, nil
}

// search handles GET /buscar?q=.
func (s *Server) search(c echo.Context) error {
	records, err := s.ports.Retrieval.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		logger.Error(err, "Search failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   CodeInternal,
			Message: msgSearchFailed,
		})
	}
	return c.JSON(http.StatusOK, s.listViews(records))
}

// list handles GET /metadados.
func (s *Server) list(c echo.Context) error {
	records, err := s.ports.Retrieval.List(c.Request().Context())
	if err != nil {
		logger.Error(err, "Listing corpus failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   CodeInternal,
			Message: msgSearchFailed,
		})
	}
	return c.JSON(http.StatusOK, s.listViews(records))
}

func (s *Server) listViews(records []domain.MetadataRecord) []domain.MetadataRecord {
	views := make([]domain.MetadataRecord, len(records))
	for i, rec := range records {
		views[i] = rec.ListView(s.excerptLength)
	}
	return views
}

// health handles GET /healthz.
func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	uptime := int(time.Since(s.started).Seconds())

	n, err := s.ports.Retrieval.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":     "unavailable",
			"error":      err.Error(),
			"uptime_sec": uptime,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":     "ok",
		"records":    n,
		"uptime_sec": uptime,
		"time":       time.Now().Format(time.RFC3339),
	})
}
