package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"advisorcli/internal/errors"
	"advisorcli/pkg/contracts/domain"
)

// RawGrid is the structurally validated but not yet sanitized table.
// Rows hold raw cell strings addressed by position; Columns maps
// canonical column keys to positions. Rows are kept in original file
// order so 1-based row numbers remain traceable.
type RawGrid struct {
	Header  []string
	Columns map[string]int
	Rows    [][]string
}

// Cell returns the raw cell for a canonical column key, or "" when the
// column is absent or the row is ragged short.
func (g *RawGrid) Cell(row []string, key string) string {
	idx, ok := g.Columns[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// HasColumn reports whether the grid carries the canonical column.
func (g *RawGrid) HasColumn(key string) bool {
	_, ok := g.Columns[key]
	return ok
}

// StructureValidator parses decoded text as CSV and verifies the table
// shape: a header row, the required columns, a bounded row count, and at
// least one non-empty data row.
//
// Parsing is lenient: LazyQuotes tolerates unterminated quotes and
// FieldsPerRecord -1 tolerates ragged rows, because real Advisor exports
// are frequently hand-edited. Only input the lenient reader still cannot
// parse becomes MalformedCSV.
type StructureValidator struct {
	logger          *slog.Logger
	maxRows         int
	requiredColumns []string
}

// NewStructureValidator creates a structure validator. requiredColumns
// holds display names (e.g. "Category"); matching is case-insensitive
// and whitespace-tolerant, and column order never matters.
func NewStructureValidator(maxRows int, requiredColumns []string, logger *slog.Logger) *StructureValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureValidator{
		logger:          logger,
		maxRows:         maxRows,
		requiredColumns: requiredColumns,
	}
}

// Validate parses the text and returns the grid plus the per-upload
// validation report. A non-nil error aborts the pipeline; the report is
// returned in both outcomes so callers can always surface warnings.
func (v *StructureValidator) Validate(text string) (*RawGrid, *domain.ValidationReport, error) {
	report := &domain.ValidationReport{IsValid: true}

	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		report.AddError("file contains no rows")
		return nil, report, errors.NewNoDataRowsError()
	}
	if err != nil {
		report.AddError(fmt.Sprintf("unparsable CSV: %v", err))
		return nil, report, errors.NewMalformedCSVError(err)
	}

	grid := &RawGrid{
		Header:  header,
		Columns: make(map[string]int, len(header)),
	}

	for i, cell := range header {
		key := canonicalColumn(cell)
		if key == "" {
			if strings.TrimSpace(cell) != "" {
				report.ExtraColumns = append(report.ExtraColumns, strings.TrimSpace(cell))
				report.AddWarning(fmt.Sprintf("unrecognized column %q ignored", strings.TrimSpace(cell)))
			}
			continue
		}
		// First occurrence wins on duplicate headers.
		if _, exists := grid.Columns[key]; !exists {
			grid.Columns[key] = i
		} else {
			report.AddWarning(fmt.Sprintf("duplicate column %q ignored", strings.TrimSpace(cell)))
		}
	}
	report.ColumnCount = len(header)

	var missing []string
	for _, required := range v.requiredColumns {
		key := canonicalColumn(required)
		if key == "" {
			// A required name outside the alias table can never match.
			missing = append(missing, required)
			continue
		}
		if !grid.HasColumn(key) {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		report.MissingColumns = missing
		report.AddError(fmt.Sprintf("required columns missing: %s", strings.Join(missing, ", ")))
		return nil, report, errors.NewMissingColumnsError(missing)
	}

	nonEmpty := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.AddError(fmt.Sprintf("unparsable CSV row: %v", err))
			return nil, report, errors.NewMalformedCSVError(err)
		}

		grid.Rows = append(grid.Rows, row)
		if len(grid.Rows) > v.maxRows {
			actual := len(grid.Rows) + drainRowCount(reader)
			report.AddError(fmt.Sprintf("row count %d exceeds the maximum of %d", actual, v.maxRows))
			return nil, report, errors.NewRowLimitError(v.maxRows, actual)
		}

		if !rowIsEmpty(row) {
			nonEmpty++
		}
	}
	report.RowCount = len(grid.Rows)

	if nonEmpty == 0 {
		report.AddError("file contains a header but no data rows")
		return nil, report, errors.NewNoDataRowsError()
	}

	v.logger.Debug("structure validated",
		slog.Int("rows", len(grid.Rows)),
		slog.Int("columns", len(header)),
		slog.Int("mapped_columns", len(grid.Columns)))

	return grid, report, nil
}

// drainRowCount counts the remaining records so the limit error can
// report the true row total instead of the point of breach.
func drainRowCount(reader *csv.Reader) int {
	n := 0
	for {
		if _, err := reader.Read(); err != nil {
			return n
		}
		n++
	}
}

// rowIsEmpty reports whether every cell is blank after trimming.
func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
