package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"advisorcli/internal/config"
	"advisorcli/internal/errors"
	"advisorcli/internal/exporter"
	"advisorcli/internal/infrastructure"
	"advisorcli/internal/ingest"
	"advisorcli/pkg/contracts/domain"
)

// Upload is one retained processing result.
type Upload struct {
	ID          string                   `json:"id"`
	Filename    string                   `json:"filename"`
	ProcessedAt time.Time                `json:"processed_at"`
	Records     []domain.Recommendation  `json:"records"`
	Statistics  *domain.Statistics       `json:"statistics"`
	Report      *domain.ValidationReport `json:"report"`
}

// UploadSummary is the listing view: everything except the record set.
type UploadSummary struct {
	ID                   string    `json:"id"`
	Filename             string    `json:"filename"`
	ProcessedAt          time.Time `json:"processed_at"`
	TotalRecommendations int       `json:"total_recommendations"`
	ReservationCount     int       `json:"reservation_count"`
}

// UploadService runs the ingestion pipeline for uploaded Advisor
// exports and retains results for retrieval and export.
type UploadService struct {
	logger    *slog.Logger
	processor *ingest.Processor
	store     *uploadStore

	csvWriter      *exporter.CSVWriter
	jsonWriter     *exporter.JSONWriter
	workbookWriter *exporter.WorkbookWriter
}

// NewUploadService wires the pipeline and exporters from configuration.
// metrics may be nil.
func NewUploadService(cfg *config.Config, metrics *infrastructure.IngestMetrics, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		logger:         logger.With(slog.String("service", "upload")),
		processor:      ingest.NewProcessor(cfg.Ingest, metrics, logger),
		store:          newUploadStore(cfg.Ingest.RetainedUploads),
		csvWriter:      exporter.NewCSVWriter(logger),
		jsonWriter:     exporter.NewJSONWriter(),
		workbookWriter: exporter.NewWorkbookWriter(logger),
	}
}

// Process ingests one upload and retains the result. The returned
// Upload carries the generated ID clients use for later retrieval.
func (s *UploadService) Process(ctx context.Context, data []byte, meta domain.UploadMeta) (*Upload, error) {
	log := infrastructure.LoggerWithContext(ctx, s.logger)

	result, err := s.processor.Process(ctx, data, meta)
	if err != nil {
		return nil, err
	}

	upload := &Upload{
		ID:          uuid.New().String(),
		Filename:    result.SanitizedFilename,
		ProcessedAt: time.Now().UTC(),
		Records:     result.Records,
		Statistics:  result.Statistics,
		Report:      result.Report,
	}
	s.store.put(upload)

	log.Info("upload retained",
		slog.String("upload_id", upload.ID),
		slog.String("filename", upload.Filename),
		slog.Int("records", len(upload.Records)))

	return upload, nil
}

// Get returns a retained upload by ID.
func (s *UploadService) Get(ctx context.Context, id string) (*Upload, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("upload %s", id))
	}
	upload, ok := s.store.get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("upload %s", id))
	}
	return upload, nil
}

// List returns summaries of all retained uploads, newest first.
func (s *UploadService) List(ctx context.Context) []UploadSummary {
	uploads := s.store.list()
	summaries := make([]UploadSummary, 0, len(uploads))
	for _, upload := range uploads {
		summaries = append(summaries, UploadSummary{
			ID:                   upload.ID,
			Filename:             upload.Filename,
			ProcessedAt:          upload.ProcessedAt,
			TotalRecommendations: upload.Statistics.TotalRecommendations,
			ReservationCount:     upload.Statistics.ReservationCount,
		})
	}
	return summaries
}

// Delete removes a retained upload.
func (s *UploadService) Delete(ctx context.Context, id string) error {
	if !s.store.delete(id) {
		return errors.NewNotFoundError(fmt.Sprintf("upload %s", id))
	}
	return nil
}

// Export streams a retained upload in the requested format and returns
// the suggested download filename.
func (s *UploadService) Export(ctx context.Context, id string, format exporter.Format, out io.Writer) (string, error) {
	upload, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("recommendations-%s%s", upload.ID[:8], format.Extension())

	switch format {
	case exporter.FormatJSON:
		err = s.jsonWriter.Write(out, exporter.JSONExport{
			Filename:   upload.Filename,
			Records:    upload.Records,
			Statistics: upload.Statistics,
			Report:     upload.Report,
		})
	case exporter.FormatXLSX:
		err = s.workbookWriter.Write(out, upload.Records, upload.Statistics)
	default:
		err = s.csvWriter.WriteRecords(out, upload.Records)
	}
	if err != nil {
		return "", fmt.Errorf("export upload %s: %w", id, err)
	}
	return filename, nil
}
