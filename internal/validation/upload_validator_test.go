package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorcli/internal/config"
	"advisorcli/internal/errors"
	"advisorcli/pkg/contracts/domain"
)

func newTestValidator() *UploadValidator {
	return NewUploadValidator(config.DefaultIngestConfig(), nil)
}

func TestCheckAccepts(t *testing.T) {
	v := newTestValidator()

	data := []byte("Category,Recommendation\nCost,Do it\n")
	name, err := v.Check(data, domain.UploadMeta{
		Filename: "advisor-export.csv",
		Size:     int64(len(data)),
	})

	require.NoError(t, err)
	assert.Equal(t, "advisor-export.csv", name)
}

func TestCheckUppercaseExtension(t *testing.T) {
	v := newTestValidator()

	data := []byte("Category,Recommendation\nCost,Do it\n")
	_, err := v.Check(data, domain.UploadMeta{Filename: "EXPORT.CSV", Size: int64(len(data))})

	require.NoError(t, err)
}

func TestCheckRejections(t *testing.T) {
	v := newTestValidator()
	csvBody := []byte("Category,Recommendation\nCost,Do it\n")

	tests := []struct {
		name string
		data []byte
		meta domain.UploadMeta
		kind errors.IngestErrorKind
	}{
		{
			name: "declared size over limit",
			data: csvBody,
			meta: domain.UploadMeta{Filename: "big.csv", Size: 60 << 20},
			kind: errors.KindTooLarge,
		},
		{
			name: "zero byte file",
			data: nil,
			meta: domain.UploadMeta{Filename: "empty.csv"},
			kind: errors.KindEmptyFile,
		},
		{
			name: "disallowed extension",
			data: csvBody,
			meta: domain.UploadMeta{Filename: "export.xlsx", Size: int64(len(csvBody))},
			kind: errors.KindInvalidExtension,
		},
		{
			name: "no extension",
			data: csvBody,
			meta: domain.UploadMeta{Filename: "export", Size: int64(len(csvBody))},
			kind: errors.KindInvalidExtension,
		},
		{
			name: "pe executable renamed to csv",
			data: append([]byte{'M', 'Z'}, csvBody...),
			meta: domain.UploadMeta{Filename: "export.csv", Size: int64(len(csvBody)) + 2},
			kind: errors.KindBinaryContent,
		},
		{
			name: "zip container renamed to csv",
			data: append([]byte{'P', 'K', 0x03, 0x04}, csvBody...),
			meta: domain.UploadMeta{Filename: "export.csv", Size: int64(len(csvBody)) + 4},
			kind: errors.KindBinaryContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Check(tt.data, tt.meta)
			require.Error(t, err)
			assert.True(t, errors.IsIngestError(err, tt.kind), "want kind %s, got %v", tt.kind, err)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean name unchanged",
			input: "advisor-export.csv",
			want:  "advisor-export.csv",
		},
		{
			name:  "path traversal stripped",
			input: "../../etc/passwd.csv",
			want:  "passwd.csv",
		},
		{
			name:  "windows path stripped",
			input: "C:\\Users\\victim\\export.csv",
			want:  "export.csv",
		},
		{
			name:  "shell metacharacters stripped",
			input: "exp$(rm -rf)|ort;.csv",
			want:  "exprm -rfort.csv",
		},
		{
			name:  "control characters dropped",
			input: "exp\x00\x1fort.csv",
			want:  "export.csv",
		},
		{
			name:  "empty falls back",
			input: "",
			want:  "upload.csv",
		},
		{
			name:  "only metacharacters falls back",
			input: "<>|;&",
			want:  "upload.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 300) + ".csv"
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), config.MaxFilenameBytes)

	// Multi-byte runes are never split mid-sequence.
	unicodeName := strings.Repeat("é", 200) + ".csv"
	got = SanitizeFilename(unicodeName)
	assert.LessOrEqual(t, len(got), config.MaxFilenameBytes)
	assert.True(t, utf8.ValidString(got))
}
