package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorcli/internal/errors"
)

func TestDecode(t *testing.T) {
	d := NewDecoder(nil)

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "plain utf8",
			input: []byte("Category,Recommendation"),
			want:  "Category,Recommendation",
		},
		{
			name:  "utf8 bom stripped",
			input: []byte("\xef\xbb\xbfCategory,Recommendation"),
			want:  "Category,Recommendation",
		},
		{
			name:  "multibyte utf8 preserved",
			input: []byte("Coût,Recommandation"),
			want:  "Coût,Recommandation",
		},
		{
			name:  "latin1 fallback",
			input: []byte{'C', 'o', 0xfb, 't'}, // "Coût" in Latin-1
			want:  "Coût",
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeWindows1252(t *testing.T) {
	// 0x93/0x94 are curly quotes in Windows-1252 and undefined in a
	// strict Latin-1 table, but the Latin-1 decoder maps every byte, so
	// the chain must be configured without latin-1 to reach cp1252.
	d := NewDecoder([]string{"utf-8", "windows-1252"})

	got, err := d.Decode([]byte{0x93, 'h', 'i', 0x94})
	require.NoError(t, err)
	assert.Equal(t, "“hi”", got)
}

func TestDecodeUndecodable(t *testing.T) {
	d := NewDecoder([]string{"utf-8"})

	_, err := d.Decode([]byte{0xff, 0xfe, 0x00})
	require.Error(t, err)
	assert.True(t, errors.IsIngestError(err, errors.KindUndecodable))
}
