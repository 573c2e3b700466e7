// Package pdf extracts text and document info from PDF files using the
// poppler command-line tools pdftotext and pdfinfo.
package pdf

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Extractor handles PDF documents.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor that shells out to poppler.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install the poppler tools.
func InstallInstructions() string {
	return `PDF extraction requires pdftotext and pdfinfo (poppler).

  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "pdf"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf", "application/x-pdf"}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract writes the content to a temporary file and runs pdftotext and pdfinfo on it.
// Pages are separated by form feeds in the returned text.
func (e *Extractor) Extract(ctx context.Context, content []byte) (*domain.ExtractionResult, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrExtraction)
	}

	tmp, err := os.CreateTemp("", "docintake-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %w", domain.ErrExtraction, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: write temp file: %w", domain.ErrExtraction, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: write temp file: %w", domain.ErrExtraction, err)
	}

	text, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w\n%s", domain.ErrExtraction, ErrPDFToolNotFound, InstallInstructions())
		}
		return nil, fmt.Errorf("%w: pdftotext failed: %w", domain.ErrExtraction, err)
	}

	result := &domain.ExtractionResult{Text: string(text)}

	info, err := e.runner.Run(ctx, "pdfinfo", "-rawdates", tmp.Name())
	if err != nil {
		logger.Warn("pdfinfo failed, document info unavailable: %v", err)
		result.PageCount = strings.Count(result.Text, "\f")
		return result, nil
	}
	applyInfo(result, parseInfo(info))

	return result, nil
}

// parseInfo reads pdfinfo's "Key: value" lines.
func parseInfo(out []byte) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}

func applyInfo(result *domain.ExtractionResult, info map[string]string) {
	if n, err := strconv.Atoi(info["Pages"]); err == nil && n > 0 {
		result.PageCount = n
	}
	if author := info["Author"]; author != "" {
		result.Author = &author
	}
	result.CreatedAt = rawDate(info["CreationDate"])
	result.ModifiedAt = rawDate(info["ModDate"])
}

// rawDate keeps a PDF date string only when it is in "D:" form.
// Some producers omit the prefix; it is restored for digit-only values.
func rawDate(v string) string {
	if strings.HasPrefix(v, "D:") {
		return v
	}
	if len(v) >= 8 && isDigits(v[:8]) {
		return "D:" + v
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
