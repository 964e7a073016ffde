package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"advisorcli/pkg/contracts/domain"
)

const (
	sheetRecommendations = "Recommendations"
	sheetStatistics      = "Statistics"
	sheetReservations    = "Reservations"
)

// WorkbookWriter renders a multi-sheet XLSX workbook. Cell values were
// already neutralized during ingestion, so they are written verbatim.
type WorkbookWriter struct {
	logger *slog.Logger
}

func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write renders the workbook and streams it to out.
func (w *WorkbookWriter) Write(out io.Writer, records []domain.Recommendation, stats *domain.Statistics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeRecordsSheet(f, records); err != nil {
		return err
	}
	if err := w.writeStatisticsSheet(f, stats); err != nil {
		return err
	}
	if err := w.writeReservationsSheet(f, stats); err != nil {
		return err
	}

	// The default sheet excelize creates is replaced by ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	w.logger.Debug("workbook exported", slog.Int("records", len(records)))
	return nil
}

func (w *WorkbookWriter) writeRecordsSheet(f *excelize.File, records []domain.Recommendation) error {
	if _, err := f.NewSheet(sheetRecommendations); err != nil {
		return fmt.Errorf("create records sheet: %w", err)
	}

	header := make([]interface{}, len(recommendationHeaders))
	for i, h := range recommendationHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetRecommendations, "A1", &header); err != nil {
		return fmt.Errorf("write records header: %w", err)
	}

	for i, rec := range records {
		row := []interface{}{
			rec.SourceRowNumber,
			string(rec.Category),
			rec.Recommendation,
			string(rec.BusinessImpact),
			rec.SubscriptionID,
			rec.SubscriptionName,
			rec.ResourceGroup,
			rec.ResourceName,
			rec.ResourceType,
			rec.PotentialSavings.InexactFloat64(),
			rec.Currency,
			rec.PotentialBenefits,
			rec.IsReservation,
			string(rec.ReservationType),
			reservationTerm(rec),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetRecommendations, cell, &row); err != nil {
			return fmt.Errorf("write record row %d: %w", rec.SourceRowNumber, err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeStatisticsSheet(f *excelize.File, stats *domain.Statistics) error {
	if _, err := f.NewSheet(sheetStatistics); err != nil {
		return fmt.Errorf("create statistics sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Recommendations", stats.TotalRecommendations},
		{"Total Potential Savings", stats.TotalPotentialSavings.InexactFloat64()},
		{"Average Potential Savings", stats.AveragePotentialSavings.InexactFloat64()},
		{"Currency", stats.Currency},
		{"Reservation Count", stats.ReservationCount},
		{},
		{"Category", "Count", "Percent"},
	}
	for _, cat := range sortedCategories(stats.CategoryDistribution) {
		rows = append(rows, []interface{}{
			string(cat),
			stats.CategoryDistribution[cat],
			stats.CategoryPercentages[cat],
		})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Business Impact", "Count", "Percent"})
	for _, impact := range sortedImpacts(stats.BusinessImpactDistribution) {
		rows = append(rows, []interface{}{
			string(impact),
			stats.BusinessImpactDistribution[impact],
			stats.BusinessImpactPercentages[impact],
		})
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetStatistics, cell, &rows[i]); err != nil {
			return fmt.Errorf("write statistics row %d: %w", i+1, err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeReservationsSheet(f *excelize.File, stats *domain.Statistics) error {
	if _, err := f.NewSheet(sheetReservations); err != nil {
		return fmt.Errorf("create reservations sheet: %w", err)
	}

	header := []interface{}{"Reservation Type", "Term (Years)", "Count", "Annual Savings", "Commitment Total"}
	if err := f.SetSheetRow(sheetReservations, "A1", &header); err != nil {
		return fmt.Errorf("write reservations header: %w", err)
	}

	for i, group := range stats.ReservationBreakdown {
		row := []interface{}{
			string(group.Type),
			group.TermYears,
			group.Count,
			group.AnnualSavings.InexactFloat64(),
			group.CommitmentTotal.InexactFloat64(),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetReservations, cell, &row); err != nil {
			return fmt.Errorf("write reservations row %d: %w", i+1, err)
		}
	}
	return nil
}
