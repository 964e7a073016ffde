package ingest

import (
	"context"
	"log/slog"
	"time"

	"advisorcli/internal/config"
	"advisorcli/internal/infrastructure"
	"advisorcli/internal/validation"
	"advisorcli/pkg/contracts/domain"
)

// ProcessResult is the full output of one upload's ingestion.
type ProcessResult struct {
	Records           []domain.Recommendation  `json:"records"`
	Statistics        *domain.Statistics       `json:"statistics"`
	Report            *domain.ValidationReport `json:"report"`
	SanitizedFilename string                   `json:"sanitized_filename"`
	SanitizedCells    int                      `json:"sanitized_cells"`
	Duration          time.Duration            `json:"-"`
}

// Processor runs the full pipeline: guard, decode, validate structure,
// sanitize, normalize, classify, aggregate. One Processor is safe for
// concurrent use; every call works on its own data, and no per-upload
// state survives a call.
type Processor struct {
	logger     *slog.Logger
	guard      *validation.UploadValidator
	decoder    *Decoder
	structure  *StructureValidator
	sanitizer  *CellSanitizer
	normalizer *FieldNormalizer
	classifier *ReservationClassifier
	aggregator *StatisticsAggregator
	metrics    *infrastructure.IngestMetrics
}

// NewProcessor wires the pipeline stages from a single configuration.
// metrics may be nil, in which case recording is a no-op.
func NewProcessor(cfg config.IngestConfig, metrics *infrastructure.IngestMetrics, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger.With(slog.String("component", "ingest_processor")),
		guard:      validation.NewUploadValidator(cfg, logger),
		decoder:    NewDecoder(cfg.Encodings),
		structure:  NewStructureValidator(cfg.MaxRows, cfg.RequiredColumns, logger),
		sanitizer:  NewCellSanitizer(cfg.MaxCellChars, logger),
		normalizer: NewFieldNormalizer(cfg.DefaultCurrency, logger),
		classifier: NewReservationClassifier(),
		aggregator: NewStatisticsAggregator(cfg.TopN, cfg.DefaultCurrency, logger),
		metrics:    metrics,
	}
}

// Process ingests one uploaded file. Upload, decode, and structural
// failures abort with a typed error; field-level noise degrades to
// defaults and surfaces as report warnings. There is no partial
// success: the call either returns records plus statistics or one
// error.
func (p *Processor) Process(ctx context.Context, data []byte, meta domain.UploadMeta) (*ProcessResult, error) {
	start := time.Now()
	log := infrastructure.LoggerWithContext(ctx, p.logger)

	filename, err := p.guard.Check(data, meta)
	if err != nil {
		p.recordOutcome(ctx, "rejected_upload", start)
		return nil, err
	}

	text, err := p.decoder.Decode(data)
	if err != nil {
		log.Warn("upload undecodable", slog.String("filename", filename))
		p.recordOutcome(ctx, "rejected_encoding", start)
		return nil, err
	}

	grid, report, err := p.structure.Validate(text)
	if err != nil {
		log.Warn("upload failed structure validation",
			slog.String("filename", filename),
			slog.Any("errors", report.Errors))
		p.recordOutcome(ctx, "rejected_structure", start)
		return nil, err
	}

	sanitized, err := p.sanitizer.SanitizeGrid(grid)
	if err != nil {
		p.recordOutcome(ctx, "rejected_cell", start)
		return nil, err
	}

	records := p.normalizer.Normalize(grid)
	reservations := p.classifier.ClassifyRecords(records)
	stats := p.aggregator.Aggregate(records)

	duration := time.Since(start)
	p.metrics.RecordUpload(ctx, "success", duration)
	p.metrics.RecordRows(ctx, len(records))
	p.metrics.RecordSanitizedCells(ctx, sanitized)
	p.metrics.RecordReservations(ctx, reservations)

	log.Info("upload processed",
		slog.String("filename", filename),
		slog.Int("records", len(records)),
		slog.Int("sanitized_cells", sanitized),
		slog.Int("reservations", reservations),
		slog.Duration("duration", duration))

	return &ProcessResult{
		Records:           records,
		Statistics:        stats,
		Report:            report,
		SanitizedFilename: filename,
		SanitizedCells:    sanitized,
		Duration:          duration,
	}, nil
}

func (p *Processor) recordOutcome(ctx context.Context, outcome string, start time.Time) {
	p.metrics.RecordUpload(ctx, outcome, time.Since(start))
}
