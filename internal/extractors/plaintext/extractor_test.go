package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		content   []byte
		wantText  string
		wantPages int
	}{
		{"utf8", []byte("Relatório de gestão"), "Relatório de gestão", 1},
		{"bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, "olá"...), "olá", 1},
		{"latin1 fallback", []byte{'a', 0xE7, 0xE3, 'o'}, "ação", 1},
		{"windows-1252 punctuation", []byte("Pre\xe7o \x93final\x94 \x80 500 \x96 ok"), "Preço \u201cfinal\u201d \u20ac 500 \u2013 ok", 1},
		{"empty", []byte("  \n "), "  \n ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Extract(context.Background(), tt.content)
			require.NoError(t, err)

			assert.Equal(t, tt.wantText, result.Text)
			assert.Equal(t, tt.wantPages, result.PageCount)
			assert.Nil(t, result.Author)
		})
	}
}

func TestExtract_Binary(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte{0x89, 'P', 'N', 'G', 0x00})

	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_Windows1252SurvivesSanitizing(t *testing.T) {
	result, err := New().Extract(context.Background(), []byte("Pre\xe7o \x93final\x94 \x80 500 \x96 ok"))
	require.NoError(t, err)

	for _, r := range result.Text {
		assert.False(t, r >= 0x80 && r <= 0x9F, "C1 control %U in %q", r, result.Text)
	}
	assert.Contains(t, result.Text, "€")
	assert.Contains(t, result.Text, "“final”")
}
