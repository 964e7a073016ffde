// Package exporter renders processed recommendation sets for download.
//
// Three encoders share one formatting layer:
//
// CSVWriter: streaming CSV output with an optional UTF-8 BOM so Excel
// opens the files with correct encoding.
//
// JSONWriter: the full processing result (records, statistics, report)
// as a single JSON document.
//
// WorkbookWriter: a multi-sheet XLSX workbook with recommendations,
// summary statistics, and the reservation breakdown on separate sheets.
//
// All encoders take an io.Writer; callers own file creation and HTTP
// streaming.
package exporter
