package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpload_StoredExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"simple", "relatorio.pdf", ".pdf"},
		{"uppercase", "PLANILHA.XLSX", ".xlsx"},
		{"digits", "scan.mp4", ".mp4"},
		{"no extension", "LEIAME", ""},
		{"trailing dot", "nota.", ""},
		{"backslash", `oficio.p\df`, ""},
		{"non ascii", "ata.pdé", ""},
		{"space", "ata.p df", ""},
		{"too long", "x." + strings.Repeat("a", 300), ""},
		{"at limit", "x.abcdefghij", ".abcdefghij"},
		{"over limit", "x.abcdefghijk", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Upload{OriginalName: tt.filename}.StoredExtension())
		})
	}
}

func TestUpload_ExtensionKeepsRawSuffix(t *testing.T) {
	u := Upload{OriginalName: "Relatorio.PDF"}

	assert.Equal(t, ".pdf", u.Extension())
	assert.Equal(t, ".pdf", u.StoredExtension())
}
