package ingest

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"advisorcli/internal/errors"
)

// formulaLeaders are the characters a spreadsheet application interprets
// as the start of a formula when the cell is opened there.
var formulaLeaders = map[byte]bool{
	'=': true,
	'+': true,
	'-': true,
	'@': true,
	'|': true,
}

// CellSanitizer neutralizes spreadsheet formula injection (CWE-1236) by
// prefixing dangerous cell values with a single apostrophe. Safe values
// pass through byte for byte, and sanitizing twice yields the same
// output as sanitizing once.
type CellSanitizer struct {
	logger       *slog.Logger
	maxCellChars int
}

func NewCellSanitizer(maxCellChars int, logger *slog.Logger) *CellSanitizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CellSanitizer{
		logger:       logger.With(slog.String("component", "cell_sanitizer")),
		maxCellChars: maxCellChars,
	}
}

// SanitizeCell trims the value and, when the trimmed value begins with a
// formula leader or with control characters leading to one, returns it
// with a literal apostrophe prefix. Everything else is returned as-is
// after trimming.
func (s *CellSanitizer) SanitizeCell(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "'") {
		// Already neutralized. Re-prefixing would double the guard.
		return trimmed
	}
	if isDangerous(trimmed) {
		return "'" + trimmed
	}
	return trimmed
}

// isDangerous reports whether the value would execute as a formula in a
// spreadsheet. Control characters (tab, CR, LF) are skipped because
// spreadsheet parsers skip them before deciding what the cell is.
func isDangerous(value string) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		return formulaLeaders[c]
	}
	return false
}

// SanitizeGrid sanitizes every cell of the grid in place, uniformly
// across all columns. It returns the number of cells that were changed.
// A cell whose character count exceeds the ceiling aborts the whole
// ingest: an oversized cell is an attack indicator, not bad data.
func (s *CellSanitizer) SanitizeGrid(grid *RawGrid) (int, error) {
	sanitized := 0
	for r, row := range grid.Rows {
		for c, cell := range row {
			if n := utf8.RuneCountInString(cell); n > s.maxCellChars {
				label := strconv.Itoa(c + 1)
				if c < len(grid.Header) {
					label = grid.Header[c]
				}
				s.logger.Warn("oversized cell rejected",
					slog.Int("row", r+2),
					slog.String("column", label),
					slog.Int("length", n))
				return sanitized, errors.NewCellTooLargeError(r+2, label, n, s.maxCellChars)
			}
			out := s.SanitizeCell(cell)
			if out != cell {
				row[c] = out
				if strings.HasPrefix(out, "'") && !strings.HasPrefix(strings.TrimSpace(cell), "'") {
					sanitized++
				}
			}
		}
	}
	if sanitized > 0 {
		s.logger.Info("cells neutralized", slog.Int("count", sanitized))
	}
	return sanitized, nil
}
