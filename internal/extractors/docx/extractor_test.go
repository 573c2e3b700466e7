package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Contrato de</w:t></w:r><w:r><w:t xml:space="preserve"> Locação</w:t></w:r></w:p>
    <w:p><w:r><w:t>Cláusula</w:t><w:tab/><w:t>primeira</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Valor</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:body>
</w:document>`

const coreXMLDoc = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>Contrato</dc:title>
  <dc:creator>João Pereira</dc:creator>
  <dcterms:created xsi:type="dcterms:W3CDTF">2024-02-01T09:30:00Z</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">2024-02-03T18:00:00-03:00</dcterms:modified>
</cp:coreProperties>`

const appXMLDoc = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Pages>3</Pages>
</Properties>`

func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestSupported(t *testing.T) {
	e := New()

	assert.Equal(t, "docx", e.Name())
	assert.Len(t, e.SupportedMIMETypes(), 1)
	assert.Equal(t, []string{".docx"}, e.SupportedExtensions())
}

func TestExtract_FullDocument(t *testing.T) {
	content := buildDOCX(t, map[string]string{
		partDocument: documentXML,
		partCore:     coreXMLDoc,
		partApp:      appXMLDoc,
	})

	result, err := New().Extract(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, "Contrato de Locação\nCláusula\tprimeira\nValor", result.Text)
	assert.Equal(t, 3, result.PageCount)
	require.NotNil(t, result.Author)
	assert.Equal(t, "João Pereira", *result.Author)
	assert.Equal(t, "D:20240201093000", result.CreatedAt)
	assert.Equal(t, "D:20240203210000", result.ModifiedAt)
}

func TestExtract_WithoutProperties(t *testing.T) {
	content := buildDOCX(t, map[string]string{partDocument: documentXML})

	result, err := New().Extract(context.Background(), content)
	require.NoError(t, err)

	assert.Contains(t, result.Text, "Contrato de Locação")
	assert.Equal(t, 1, result.PageCount)
	assert.Nil(t, result.Author)
	assert.Empty(t, result.CreatedAt)
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"not a zip", []byte("plain text")},
		{"zip without document", buildDOCX(t, map[string]string{partCore: coreXMLDoc})},
		{"broken document xml", buildDOCX(t, map[string]string{partDocument: "<w:document><w:body>"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Extract(context.Background(), tt.content)

			assert.ErrorIs(t, err, domain.ErrExtraction)
			assert.Nil(t, result)
		})
	}
}

func TestW3CDate(t *testing.T) {
	assert.Equal(t, "D:20240102000000", w3cDate("2024-01-02"))
	assert.Empty(t, w3cDate("yesterday"))
	assert.Empty(t, w3cDate(""))
}
