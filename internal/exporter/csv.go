package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"advisorcli/pkg/contracts/domain"
)

// recommendationHeaders is the column order for record exports. It
// mirrors the canonical schema, not whatever headers the upload used.
var recommendationHeaders = []string{
	"Row",
	"Category",
	"Recommendation",
	"Business Impact",
	"Subscription ID",
	"Subscription Name",
	"Resource Group",
	"Resource Name",
	"Resource Type",
	"Potential Annual Savings",
	"Currency",
	"Potential Benefits",
	"Is Reservation",
	"Reservation Type",
	"Commitment Term (Years)",
}

// CSVWriter streams recommendation and statistics exports as CSV.
type CSVWriter struct {
	logger *slog.Logger

	// BOMPrefix adds a UTF-8 BOM so Excel detects the encoding.
	BOMPrefix bool
}

func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, BOMPrefix: true}
}

// WriteRecords writes all recommendations in row order.
func (w *CSVWriter) WriteRecords(out io.Writer, records []domain.Recommendation) error {
	if err := w.writeBOM(out); err != nil {
		return err
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(recommendationHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			formatInt(rec.SourceRowNumber),
			string(rec.Category),
			rec.Recommendation,
			string(rec.BusinessImpact),
			rec.SubscriptionID,
			rec.SubscriptionName,
			rec.ResourceGroup,
			rec.ResourceName,
			rec.ResourceType,
			formatMoney(rec.PotentialSavings),
			rec.Currency,
			rec.PotentialBenefits,
			formatBool(rec.IsReservation),
			string(rec.ReservationType),
			reservationTerm(rec),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record row %d: %w", rec.SourceRowNumber, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}

	w.logger.Debug("records exported", slog.Int("count", len(records)))
	return nil
}

// WriteStatistics writes the summary as key/value sections: totals,
// category distribution, impact distribution, reservation breakdown.
func (w *CSVWriter) WriteStatistics(out io.Writer, stats *domain.Statistics) error {
	if err := w.writeBOM(out); err != nil {
		return err
	}

	writer := csv.NewWriter(out)

	rows := [][]string{
		{"Metric", "Value"},
		{"Total Recommendations", formatInt(stats.TotalRecommendations)},
		{"Total Potential Savings", formatMoney(stats.TotalPotentialSavings)},
		{"Average Potential Savings", formatMoney(stats.AveragePotentialSavings)},
		{"Currency", stats.Currency},
		{"Reservation Count", formatInt(stats.ReservationCount)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := writer.Write([]string{"Category", "Count", "Percent"}); err != nil {
		return fmt.Errorf("write category header: %w", err)
	}
	for _, cat := range sortedCategories(stats.CategoryDistribution) {
		row := []string{
			string(cat),
			formatInt(stats.CategoryDistribution[cat]),
			formatPercent(stats.CategoryPercentages[cat]),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write category row: %w", err)
		}
	}

	if err := writer.Write([]string{"Business Impact", "Count", "Percent"}); err != nil {
		return fmt.Errorf("write impact header: %w", err)
	}
	for _, impact := range sortedImpacts(stats.BusinessImpactDistribution) {
		row := []string{
			string(impact),
			formatInt(stats.BusinessImpactDistribution[impact]),
			formatPercent(stats.BusinessImpactPercentages[impact]),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write impact row: %w", err)
		}
	}

	if len(stats.ReservationBreakdown) > 0 {
		if err := writer.Write([]string{"Reservation Type", "Term (Years)", "Count", "Annual Savings", "Commitment Total"}); err != nil {
			return fmt.Errorf("write reservation header: %w", err)
		}
		for _, group := range stats.ReservationBreakdown {
			row := []string{
				string(group.Type),
				formatInt(group.TermYears),
				formatInt(group.Count),
				formatMoney(group.AnnualSavings),
				formatMoney(group.CommitmentTotal),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write reservation row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush statistics: %w", err)
	}
	return nil
}

func (w *CSVWriter) writeBOM(out io.Writer) error {
	if !w.BOMPrefix {
		return nil
	}
	if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}
	return nil
}

// sortedCategories returns map keys in lexical order so exports are
// deterministic across runs.
func sortedCategories(dist map[domain.Category]int) []domain.Category {
	keys := make([]domain.Category, 0, len(dist))
	for cat := range dist {
		keys = append(keys, cat)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedImpacts(dist map[domain.BusinessImpact]int) []domain.BusinessImpact {
	keys := make([]domain.BusinessImpact, 0, len(dist))
	for impact := range dist {
		keys = append(keys, impact)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func reservationTerm(rec domain.Recommendation) string {
	if !rec.IsReservation {
		return ""
	}
	return formatInt(rec.CommitmentTermYears)
}
