package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"advisorcli/pkg/contracts/domain"
)

// JSONExport is the document shape for JSON downloads.
type JSONExport struct {
	Filename   string                   `json:"filename"`
	Records    []domain.Recommendation  `json:"records"`
	Statistics *domain.Statistics       `json:"statistics"`
	Report     *domain.ValidationReport `json:"report,omitempty"`
}

// JSONWriter encodes the full processing result as one JSON document.
type JSONWriter struct {
	// Indent pretty-prints the output; downloads keep it on so the
	// document stays diffable.
	Indent bool
}

func NewJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: true}
}

func (w *JSONWriter) Write(out io.Writer, export JSONExport) error {
	if export.Records == nil {
		export.Records = []domain.Recommendation{}
	}

	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}
