package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"advisorcli/internal/config"
	"advisorcli/internal/exporter"
	"advisorcli/internal/files"
	"advisorcli/internal/infrastructure"
	"advisorcli/internal/ingest"
	"advisorcli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", ".", "directory containing Advisor CSV exports")
	outDir := flag.String("out", "reports", "directory for generated reports")
	pattern := flag.String("pattern", "*.csv", "glob pattern selecting exports inside the input directory")
	formatArg := flag.String("format", "json", "report format: csv, json, or xlsx")
	workers := flag.Int("workers", 4, "number of exports processed concurrently")
	flag.Parse()

	format, err := exporter.ParseFormat(*formatArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -format: %v\n", err)
		os.Exit(2)
	}
	if *workers < 1 {
		fmt.Fprintln(os.Stderr, "-workers must be at least 1")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	discovery := files.NewDiscovery(*inDir)
	exports, err := discovery.FindByPattern(".", *pattern)
	if err != nil {
		logger.Error("Failed to discover exports", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(exports) == 0 {
		logger.Info("No exports matched",
			slog.String("input_dir", *inDir),
			slog.String("pattern", *pattern))
		return
	}

	logger.Info("Starting batch analysis",
		slog.Int("exports", len(exports)),
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.String("format", string(format)),
		slog.Int("workers", *workers))

	processor := ingest.NewProcessor(cfg.Ingest, nil, logger)
	output := files.NewOutputManager(*outDir, logger)
	csvWriter := exporter.NewCSVWriter(logger)
	jsonWriter := exporter.NewJSONWriter()
	workbookWriter := exporter.NewWorkbookWriter(logger)

	start := time.Now()
	var processed, failed atomic.Int64

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)

	for _, export := range exports {
		g.Go(func() error {
			log := logger.With(slog.String("export", export.Name))

			data, err := os.ReadFile(export.Path)
			if err != nil {
				log.Error("Failed to read export", slog.String("error", err.Error()))
				failed.Add(1)
				return nil
			}

			result, err := processor.Process(ctx, data, domain.UploadMeta{
				Filename:    export.Name,
				Size:        export.Size,
				ContentType: "text/csv",
			})
			if err != nil {
				// One rejected export does not abort the batch.
				log.Error("Export rejected", slog.String("error", err.Error()))
				failed.Add(1)
				return nil
			}

			if err := writeReport(output, csvWriter, jsonWriter, workbookWriter, format, export.Name, result); err != nil {
				log.Error("Failed to write report", slog.String("error", err.Error()))
				failed.Add(1)
				return nil
			}

			log.Info("Export analyzed",
				slog.Int("records", len(result.Records)),
				slog.Int("reservations", result.Statistics.ReservationCount),
				slog.Int("sanitized_cells", result.SanitizedCells))
			processed.Add(1)
			return nil
		})
	}

	// Workers swallow per-file errors, so Wait only fails on context
	// cancellation.
	if err := g.Wait(); err != nil {
		logger.Error("Batch aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Batch complete",
		slog.Int64("processed", processed.Load()),
		slog.Int64("failed", failed.Load()),
		slog.Duration("duration", time.Since(start)))

	if failed.Load() > 0 {
		os.Exit(1)
	}
}

// writeReport renders one analyzed export into the output directory. CSV
// output produces a records file plus a companion statistics file; JSON and
// XLSX bundle both into a single artifact.
func writeReport(output *files.OutputManager, csvWriter *exporter.CSVWriter, jsonWriter *exporter.JSONWriter, workbookWriter *exporter.WorkbookWriter, format exporter.Format, exportName string, result *ingest.ProcessResult) error {
	base := strings.TrimSuffix(exportName, filepath.Ext(exportName))

	switch format {
	case exporter.FormatCSV:
		f, err := output.CreateFile(base + "-report" + format.Extension())
		if err != nil {
			return err
		}
		if err := csvWriter.WriteRecords(f, result.Records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		sf, err := output.CreateFile(base + "-stats" + format.Extension())
		if err != nil {
			return err
		}
		if err := csvWriter.WriteStatistics(sf, result.Statistics); err != nil {
			sf.Close()
			return err
		}
		return sf.Close()

	case exporter.FormatJSON:
		f, err := output.CreateFile(base + "-report" + format.Extension())
		if err != nil {
			return err
		}
		if err := jsonWriter.Write(f, exporter.JSONExport{
			Filename:   result.SanitizedFilename,
			Records:    result.Records,
			Statistics: result.Statistics,
			Report:     result.Report,
		}); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	case exporter.FormatXLSX:
		f, err := output.CreateFile(base + "-report" + format.Extension())
		if err != nil {
			return err
		}
		if err := workbookWriter.Write(f, result.Records, result.Statistics); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
