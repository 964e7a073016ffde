package exporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Format selects the encoder for a download request.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a user-supplied format name. The empty string
// defaults to CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type for HTTP downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the filename extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".csv"
	}
}

// formatMoney formats a decimal amount with exactly 2 decimal places so
// 13.4 exports as 13.40.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatPercent formats a percentage with one decimal place.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
