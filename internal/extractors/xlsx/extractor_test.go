package xlsx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Item"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Valor"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Papel"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 12))

	_, err := f.NewSheet("Resumo")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Resumo", "A1", "Total"))

	require.NoError(t, f.SetDocProps(&excelize.DocProperties{
		Creator:  "Ana Costa",
		Created:  "2023-11-20T08:00:00Z",
		Modified: "2023-11-21T09:15:30Z",
	}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestSupported(t *testing.T) {
	e := New()

	assert.Equal(t, "xlsx", e.Name())
	assert.Contains(t, e.SupportedExtensions(), ".xlsx")
}

func TestExtract(t *testing.T) {
	result, err := New().Extract(context.Background(), buildWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, "Sheet1\nItem\tValor\nPapel\t12\n\nResumo\nTotal", result.Text)
	assert.Equal(t, 2, result.PageCount)
	require.NotNil(t, result.Author)
	assert.Equal(t, "Ana Costa", *result.Author)
	assert.Equal(t, "D:20231120080000", result.CreatedAt)
	assert.Equal(t, "D:20231121091530", result.ModifiedAt)
}

func TestExtract_Malformed(t *testing.T) {
	result, err := New().Extract(context.Background(), []byte("not a workbook"))

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Nil(t, result)
}
