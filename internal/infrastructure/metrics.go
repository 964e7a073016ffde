package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	ServiceName    = "advisor-ingest"
	ServiceVersion = "1.2.0"
	MeterName      = "advisorcli"
)

// IngestMetrics holds the instruments recorded by the upload pipeline.
type IngestMetrics struct {
	meter metric.Meter

	uploadsTotal       metric.Int64Counter
	rowsNormalized     metric.Int64Counter
	cellsSanitized     metric.Int64Counter
	reservationsFound  metric.Int64Counter
	processingDuration metric.Float64Histogram
}

// MetricsProvider wires the otel meter provider to a Prometheus exporter
// and exposes the scrape handler.
type MetricsProvider struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Ingest         *IngestMetrics
	logger         *slog.Logger
}

// InitializeMetrics sets up the otel meter provider with a Prometheus
// reader and registers the ingest instruments.
func InitializeMetrics(logger *slog.Logger) (*MetricsProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	// A dedicated registry keeps repeated initialization (tests, embedded
	// use) from tripping duplicate-collector registration on the default
	// registry.
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))

	ingest, err := newIngestMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest instruments: %w", err)
	}

	logger.Info("metrics initialized",
		slog.String("service", ServiceName),
		slog.String("exporter", "prometheus"))

	return &MetricsProvider{
		MeterProvider:  mp,
		Meter:          meter,
		PrometheusHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Ingest:         ingest,
		logger:         logger,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (p *MetricsProvider) Shutdown(ctx context.Context) error {
	if p.MeterProvider == nil {
		return nil
	}
	return p.MeterProvider.Shutdown(ctx)
}

func newIngestMetrics(meter metric.Meter) (*IngestMetrics, error) {
	m := &IngestMetrics{meter: meter}

	var err error
	if m.uploadsTotal, err = meter.Int64Counter("ingest_uploads_total",
		metric.WithDescription("Uploads processed, by outcome")); err != nil {
		return nil, err
	}
	if m.rowsNormalized, err = meter.Int64Counter("ingest_rows_normalized_total",
		metric.WithDescription("Data rows normalized into recommendations")); err != nil {
		return nil, err
	}
	if m.cellsSanitized, err = meter.Int64Counter("ingest_cells_sanitized_total",
		metric.WithDescription("Cells rewritten by the formula-injection guard")); err != nil {
		return nil, err
	}
	if m.reservationsFound, err = meter.Int64Counter("ingest_reservations_total",
		metric.WithDescription("Recommendations classified as commitment-based savings")); err != nil {
		return nil, err
	}
	if m.processingDuration, err = meter.Float64Histogram("ingest_processing_seconds",
		metric.WithDescription("Wall time of one pipeline invocation"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordUpload records one finished pipeline invocation.
func (m *IngestMetrics) RecordUpload(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.uploadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.processingDuration.Record(ctx, duration.Seconds())
}

// RecordRows records how many rows one upload normalized.
func (m *IngestMetrics) RecordRows(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.rowsNormalized.Add(ctx, int64(rows))
}

// RecordSanitizedCells records how many cells the injection guard rewrote.
func (m *IngestMetrics) RecordSanitizedCells(ctx context.Context, cells int) {
	if m == nil {
		return
	}
	m.cellsSanitized.Add(ctx, int64(cells))
}

// RecordReservations records how many records were flagged as reservations.
func (m *IngestMetrics) RecordReservations(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.reservationsFound.Add(ctx, int64(count))
}
