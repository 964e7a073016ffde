package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorcli/internal/config"
	"advisorcli/internal/errors"
	"advisorcli/internal/exporter"
	"advisorcli/pkg/contracts/domain"
)

func newTestService() *UploadService {
	cfg := config.Default()
	return NewUploadService(cfg, nil, nil)
}

func uploadBody(text string) ([]byte, domain.UploadMeta) {
	data := []byte(text)
	return data, domain.UploadMeta{
		Filename: "export.csv",
		Size:     int64(len(data)),
	}
}

const sampleCSV = "Category,Recommendation,Business Impact,Potential Annual Cost Savings\n" +
	"Cost,\"Use reserved instances, 3 year term\",High,\"$2,400\"\n" +
	"Security,Enable MFA,Medium,\n"

func TestProcessAndGet(t *testing.T) {
	s := newTestService()
	data, meta := uploadBody(sampleCSV)

	upload, err := s.Process(context.Background(), data, meta)
	require.NoError(t, err)
	require.NotEmpty(t, upload.ID)
	assert.Equal(t, "export.csv", upload.Filename)
	assert.Len(t, upload.Records, 2)
	assert.Equal(t, 2, upload.Statistics.TotalRecommendations)
	assert.WithinDuration(t, time.Now().UTC(), upload.ProcessedAt, time.Minute)

	got, err := s.Get(context.Background(), upload.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.ID, got.ID)
}

func TestProcessRejectedNotRetained(t *testing.T) {
	s := newTestService()
	data, meta := uploadBody("Recommendation\nNo category column\n")

	_, err := s.Process(context.Background(), data, meta)
	require.Error(t, err)
	assert.True(t, errors.IsIngestError(err, errors.KindMissingColumns))
	assert.Empty(t, s.List(context.Background()))
}

func TestGetUnknownID(t *testing.T) {
	s := newTestService()

	tests := []struct {
		name string
		id   string
	}{
		{name: "well-formed but absent", id: "a2e8b1de-0000-4000-8000-000000000000"},
		{name: "not a uuid", id: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Get(context.Background(), tt.id)
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrTypeNotFound, appErr.Type)
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestService()
	data, meta := uploadBody(sampleCSV)
	a, err := s.Process(context.Background(), data, meta)
	require.NoError(t, err)
	b, err := s.Process(context.Background(), data, meta)
	require.NoError(t, err)

	// Force distinct timestamps.
	ua, _ := s.store.get(a.ID)
	ua.ProcessedAt = ua.ProcessedAt.Add(-time.Second)

	summaries := s.List(context.Background())
	require.Len(t, summaries, 2)
	assert.Equal(t, b.ID, summaries[0].ID)
	assert.Equal(t, a.ID, summaries[1].ID)
	assert.Equal(t, 2, summaries[0].TotalRecommendations)
}

func TestDelete(t *testing.T) {
	s := newTestService()
	data, meta := uploadBody(sampleCSV)

	upload, err := s.Process(context.Background(), data, meta)
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), upload.ID))
	assert.Error(t, s.Delete(context.Background(), upload.ID))

	_, err = s.Get(context.Background(), upload.ID)
	assert.Error(t, err)
}

func TestExportFormats(t *testing.T) {
	s := newTestService()
	data, meta := uploadBody(sampleCSV)

	upload, err := s.Process(context.Background(), data, meta)
	require.NoError(t, err)

	tests := []struct {
		name     string
		format   exporter.Format
		contains string
	}{
		{name: "csv", format: exporter.FormatCSV, contains: "Enable MFA"},
		{name: "json", format: exporter.FormatJSON, contains: "\"total_recommendations\": 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			filename, err := s.Export(context.Background(), upload.ID, tt.format, &buf)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(filename, tt.format.Extension()))
			assert.Contains(t, buf.String(), tt.contains)
		})
	}

	var buf bytes.Buffer
	filename, err := s.Export(context.Background(), upload.ID, exporter.FormatXLSX, &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.NotZero(t, buf.Len())
}

func TestExportUnknownUpload(t *testing.T) {
	s := newTestService()

	var buf bytes.Buffer
	_, err := s.Export(context.Background(), "a2e8b1de-0000-4000-8000-000000000000", exporter.FormatCSV, &buf)
	require.Error(t, err)
}

func TestStoreEviction(t *testing.T) {
	store := newUploadStore(2)

	for i, id := range []string{"a", "b", "c"} {
		store.put(&Upload{
			ID:          id,
			ProcessedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	assert.Equal(t, 2, store.len())
	_, ok := store.get("a")
	assert.False(t, ok, "oldest entry must be evicted")
	_, ok = store.get("c")
	assert.True(t, ok)
}
