package ingest

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"advisorcli/pkg/contracts/domain"
)

// categorySynonyms maps lowercased raw category values to canonical
// categories. Unmapped values are preserved title-cased rather than
// coerced; consumers tolerate unknown category strings.
var categorySynonyms = map[string]domain.Category{
	"cost":                   domain.CategoryCost,
	"security":               domain.CategorySecurity,
	"reliability":            domain.CategoryReliability,
	"high availability":      domain.CategoryReliability,
	"operational excellence": domain.CategoryOperationalExcellence,
	"operationalexcellence":  domain.CategoryOperationalExcellence,
	"performance":            domain.CategoryPerformance,
}

// notAvailableValues are numeric-cell spellings that mean "no figure".
var notAvailableValues = map[string]bool{
	"":              true,
	"n/a":           true,
	"na":            true,
	"not available": true,
	"-":             true,
}

// moneyStripper removes currency symbols and thousands separators
// before decimal parsing.
var moneyStripper = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
)

// FieldNormalizer maps the sanitized grid onto canonical records. All
// field-level parsing is best effort: a bad cell degrades to its
// documented default and never aborts the batch.
type FieldNormalizer struct {
	logger          *slog.Logger
	defaultCurrency string
}

func NewFieldNormalizer(defaultCurrency string, logger *slog.Logger) *FieldNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &FieldNormalizer{
		logger:          logger.With(slog.String("component", "field_normalizer")),
		defaultCurrency: defaultCurrency,
	}
}

// Normalize converts every non-empty grid row into exactly one record.
// Entirely-empty rows are dropped silently; SourceRowNumber stays the
// 1-based index into the original data rows, not the post-drop index.
func (n *FieldNormalizer) Normalize(grid *RawGrid) []domain.Recommendation {
	records := make([]domain.Recommendation, 0, len(grid.Rows))

	for i, row := range grid.Rows {
		if rowIsEmpty(row) {
			continue
		}

		rec := domain.Recommendation{
			Category:          n.normalizeCategory(grid.Cell(row, ColCategory)),
			BusinessImpact:    normalizeImpact(grid.Cell(row, ColBusinessImpact)),
			Recommendation:    strings.TrimSpace(grid.Cell(row, ColRecommendation)),
			PotentialBenefits: strings.TrimSpace(grid.Cell(row, ColPotentialBenefits)),
			SubscriptionID:    strings.TrimSpace(grid.Cell(row, ColSubscriptionID)),
			SubscriptionName:  strings.TrimSpace(grid.Cell(row, ColSubscriptionName)),
			ResourceGroup:     strings.TrimSpace(grid.Cell(row, ColResourceGroup)),
			ResourceName:      strings.TrimSpace(grid.Cell(row, ColResourceName)),
			ResourceType:      strings.TrimSpace(grid.Cell(row, ColResourceType)),
			PotentialSavings:  parseMoney(grid.Cell(row, ColPotentialSavings)),
			Currency:          n.normalizeCurrency(grid.Cell(row, ColCurrency)),
			SourceRowNumber:   i + 1,
		}

		if grid.HasColumn(ColAdvisorScoreImpact) {
			if score, ok := parseOptionalDecimal(grid.Cell(row, ColAdvisorScoreImpact)); ok {
				rec.AdvisorScoreImpact = &score
			}
		}

		records = append(records, rec)
	}

	n.logger.Debug("rows normalized",
		slog.Int("input_rows", len(grid.Rows)),
		slog.Int("records", len(records)))

	return records
}

// normalizeCategory maps synonyms onto the canonical set. Unrecognized
// values pass through title-cased so no data is discarded.
func (n *FieldNormalizer) normalizeCategory(raw string) domain.Category {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.CategoryCost
	}
	if cat, ok := categorySynonyms[strings.ToLower(trimmed)]; ok {
		return cat
	}
	// cases.Caser carries internal state, so build one per call rather
	// than sharing across concurrent pipeline runs.
	return domain.Category(cases.Title(language.English).String(strings.ToLower(trimmed)))
}

func normalizeImpact(raw string) domain.BusinessImpact {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return domain.ImpactHigh
	case "low":
		return domain.ImpactLow
	default:
		return domain.ImpactMedium
	}
}

func (n *FieldNormalizer) normalizeCurrency(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return n.defaultCurrency
	}
	return trimmed
}

// stripGuard removes the single apostrophe the sanitizer prefixes onto
// cells starting with a formula leader, so amounts like -500.00 survive
// the sanitize-then-normalize ordering.
func stripGuard(cleaned string) string {
	return strings.TrimPrefix(cleaned, "'")
}

// parseMoney parses currency-formatted amounts. Missing or unparsable
// values resolve to zero; a leading minus sign is kept as-is since
// negative savings are representable.
func parseMoney(raw string) decimal.Decimal {
	cleaned := stripGuard(moneyStripper.Replace(strings.TrimSpace(raw)))
	if notAvailableValues[strings.ToLower(cleaned)] {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseOptionalDecimal(raw string) (decimal.Decimal, bool) {
	cleaned := stripGuard(moneyStripper.Replace(strings.TrimSpace(raw)))
	if notAvailableValues[strings.ToLower(cleaned)] {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
