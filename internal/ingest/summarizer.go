package ingest

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"advisorcli/pkg/contracts/domain"
)

const topRecommendationsDefault = 10

// StatisticsAggregator reduces a fully normalized and classified record
// set into summary statistics. Pure in-memory computation; an empty
// input yields an all-zero Statistics, never an error.
type StatisticsAggregator struct {
	logger          *slog.Logger
	topN            int
	defaultCurrency string
}

func NewStatisticsAggregator(topN int, defaultCurrency string, logger *slog.Logger) *StatisticsAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if topN <= 0 {
		topN = topRecommendationsDefault
	}
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &StatisticsAggregator{
		logger:          logger.With(slog.String("component", "statistics_aggregator")),
		topN:            topN,
		defaultCurrency: defaultCurrency,
	}
}

// Aggregate computes the full summary in a single pass plus one sort
// for the top-N list and one for the reservation breakdown.
func (a *StatisticsAggregator) Aggregate(records []domain.Recommendation) *domain.Statistics {
	stats := &domain.Statistics{
		TotalRecommendations:       len(records),
		CategoryDistribution:       make(map[domain.Category]int),
		CategoryPercentages:        make(map[domain.Category]float64),
		BusinessImpactDistribution: make(map[domain.BusinessImpact]int),
		BusinessImpactPercentages:  make(map[domain.BusinessImpact]float64),
		TotalPotentialSavings:      decimal.Zero,
		AveragePotentialSavings:    decimal.Zero,
		Currency:                   a.defaultCurrency,
		TopRecommendationsBySavings: []domain.Recommendation{},
		ReservationBreakdown:        []domain.ReservationGroup{},
	}
	if len(records) == 0 {
		return stats
	}

	type groupKey struct {
		typ  domain.ReservationType
		term int
	}
	groups := make(map[groupKey]*domain.ReservationGroup)

	for _, rec := range records {
		stats.CategoryDistribution[rec.Category]++
		stats.BusinessImpactDistribution[rec.BusinessImpact]++
		stats.TotalPotentialSavings = stats.TotalPotentialSavings.Add(rec.PotentialSavings)

		if stats.Currency == a.defaultCurrency && rec.Currency != "" {
			stats.Currency = rec.Currency
		}

		if rec.IsReservation {
			stats.ReservationCount++
			key := groupKey{typ: rec.ReservationType, term: rec.CommitmentTermYears}
			group, ok := groups[key]
			if !ok {
				group = &domain.ReservationGroup{
					Type:      rec.ReservationType,
					TermYears: rec.CommitmentTermYears,
				}
				groups[key] = group
			}
			group.Count++
			group.AnnualSavings = group.AnnualSavings.Add(rec.PotentialSavings)
		}
	}

	total := len(records)
	for cat, count := range stats.CategoryDistribution {
		stats.CategoryPercentages[cat] = float64(count) / float64(total) * 100
	}
	for impact, count := range stats.BusinessImpactDistribution {
		stats.BusinessImpactPercentages[impact] = float64(count) / float64(total) * 100
	}

	stats.AveragePotentialSavings = stats.TotalPotentialSavings.
		Div(decimal.NewFromInt(int64(total))).
		Round(2)

	stats.TopRecommendationsBySavings = a.topBySavings(records)

	for _, group := range groups {
		group.CommitmentTotal = group.AnnualSavings.Mul(decimal.NewFromInt(int64(group.TermYears)))
		stats.ReservationBreakdown = append(stats.ReservationBreakdown, *group)
	}
	sort.Slice(stats.ReservationBreakdown, func(i, j int) bool {
		bi, bj := stats.ReservationBreakdown[i], stats.ReservationBreakdown[j]
		if bi.Type != bj.Type {
			return bi.Type < bj.Type
		}
		return bi.TermYears < bj.TermYears
	})

	a.logger.Debug("statistics aggregated",
		slog.Int("records", total),
		slog.Int("reservations", stats.ReservationCount),
		slog.String("total_savings", stats.TotalPotentialSavings.String()))

	return stats
}

// topBySavings returns at most topN records ordered by descending
// savings. The sort is stable so ties keep original row order.
func (a *StatisticsAggregator) topBySavings(records []domain.Recommendation) []domain.Recommendation {
	top := make([]domain.Recommendation, len(records))
	copy(top, records)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].PotentialSavings.GreaterThan(top[j].PotentialSavings)
	})
	if len(top) > a.topN {
		top = top[:a.topN]
	}
	return top
}
